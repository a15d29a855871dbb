package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
	"github.com/samuelezeh/ecommapp-backend/pkg/pagination"
)

// Detail is a product row joined with its display context. AverageRating
// is nil while the product has no reviews.
type Detail struct {
	models.Product
	Username      string
	CategoryName  string
	AverageRating *float64
}

// Repository wraps product persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select("products.*, users.username AS username, categories.name AS category_name, AVG(reviews.rating) AS average_rating").
		Joins("JOIN users ON users.id = products.user_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Group("products.id, users.username, categories.name")
}

// FindDetail loads one product with username, category name and average
// rating resolved.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	var row Detail
	err := r.detailQuery(ctx).
		Where("products.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListDetails returns a page of products ordered by (created_at, id)
// ascending, starting after the cursor when one is given. Callers pass a
// limit that already includes the look-ahead row.
func (r *Repository) ListDetails(ctx context.Context, cursor *pagination.Cursor, limit int) ([]Detail, error) {
	query := r.detailQuery(ctx)
	if cursor != nil {
		query = query.Where(
			"products.created_at > ? OR (products.created_at = ? AND products.id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []Detail
	err := query.
		Order("products.created_at ASC, products.id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
