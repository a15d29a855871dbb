package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// ItemDTO is the read shape for a saved product.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Product   string    `json:"product"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistDTO is the read shape for a user's wishlist.
type WishlistDTO struct {
	ID        uuid.UUID `json:"id"`
	User      string    `json:"user"`
	Items     []ItemDTO `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func itemFromDetail(detail *ItemDetail) ItemDTO {
	return ItemDTO{
		ID:        detail.ID,
		Product:   detail.ProductName,
		Price:     detail.ProductPrice.StringFixed(2),
		CreatedAt: detail.CreatedAt,
	}
}

// FromModel converts a stored wishlist plus its owner and resolved items.
func FromModel(wishlist *models.Wishlist, username string, items []ItemDetail) *WishlistDTO {
	if wishlist == nil {
		return nil
	}
	dto := &WishlistDTO{
		ID:        wishlist.ID,
		User:      username,
		Items:     make([]ItemDTO, 0, len(items)),
		CreatedAt: wishlist.CreatedAt,
		UpdatedAt: wishlist.UpdatedAt,
	}
	for i := range items {
		dto.Items = append(dto.Items, itemFromDetail(&items[i]))
	}
	return dto
}

// ItemDetail is a wishlist item joined with its product display info.
type ItemDetail struct {
	models.WishlistItem
	ProductName  string
	ProductPrice decimal.Decimal
}
