package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// Detail is a review row joined with its display context.
type Detail struct {
	models.Review
	ProductName string
	Username    string
}

// Repository wraps review persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *Repository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, products.name AS product_name, users.username AS username").
		Joins("JOIN products ON products.id = reviews.product_id").
		Joins("JOIN users ON users.id = reviews.user_id")
}

// FindDetail loads one review belonging to the given product.
func (r *Repository) FindDetail(ctx context.Context, productID, reviewID uuid.UUID) (*Detail, error) {
	var row Detail
	err := r.detailQuery(ctx).
		Where("reviews.id = ? AND reviews.product_id = ?", reviewID, productID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByProduct returns every review for the product, oldest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]Detail, error) {
	var rows []Detail
	err := r.detailQuery(ctx).
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at ASC, reviews.id ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads a review scoped to its product.
func (r *Repository) FindByID(ctx context.Context, productID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", reviewID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsForUser reports whether the user already reviewed the product.
func (r *Repository) ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Update(ctx context.Context, review *models.Review) error {
	if review == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *Repository) Delete(ctx context.Context, productID, reviewID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", reviewID, productID).
		Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
