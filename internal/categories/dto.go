package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// CategoryDTO is the read shape for a category, including how many
// products currently reference it.
type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	TotalProducts int64     `json:"total_products"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel converts a stored category plus its product count.
func FromModel(category *models.Category, totalProducts int64) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:            category.ID,
		Name:          category.Name,
		Description:   category.Description,
		TotalProducts: totalProducts,
		CreatedAt:     category.CreatedAt,
		UpdatedAt:     category.UpdatedAt,
	}
}
