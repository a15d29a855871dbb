package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// ReviewDTO is the read shape for a review. Product and user appear as
// display strings.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	Product   string    `json:"product"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Review    *string   `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel converts a stored review plus its display context.
func FromModel(review *models.Review, productName, username string) *ReviewDTO {
	if review == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        review.ID,
		Product:   productName,
		User:      username,
		Rating:    review.Rating,
		Review:    review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
