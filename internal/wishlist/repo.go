package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// Repository wraps wishlist persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the user's wishlist, creating it on first touch.
// The insert ignores a concurrent winner, then the select reads whichever
// row ended up owning the unique slot.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	wishlist := &models.Wishlist{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(wishlist).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *Repository) AddItem(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListItems returns the wishlist's items with product name and price
// resolved, oldest first.
func (r *Repository) ListItems(ctx context.Context, wishlistID uuid.UUID) ([]ItemDetail, error) {
	var rows []ItemDetail
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Select("wishlist_items.*, products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.id = wishlist_items.product_id").
		Where("wishlist_items.wishlist_id = ?", wishlistID).
		Order("wishlist_items.created_at ASC, wishlist_items.id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) RemoveItem(ctx context.Context, wishlistID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND wishlist_id = ?", itemID, wishlistID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
