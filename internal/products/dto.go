package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// ProductDTO is the read shape for a product. Related entities appear as
// display strings rather than ids, and the price is rendered with exactly
// two decimal places.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Price         string    `json:"price"`
	Quantity      int       `json:"quantity"`
	User          string    `json:"user"`
	Category      string    `json:"category"`
	AverageRating *float64  `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductPage is a cursor-paginated product listing.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	NextCursor *string      `json:"next_cursor"`
}

// FromModel converts a stored product plus its display context.
func FromModel(product *models.Product, username, categoryName string, averageRating *float64) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price.StringFixed(2),
		Quantity:      product.Quantity,
		User:          username,
		Category:      categoryName,
		AverageRating: averageRating,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
