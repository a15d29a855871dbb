package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelezeh/ecommapp-backend/pkg/db"
	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
	pkgerrors "github.com/samuelezeh/ecommapp-backend/pkg/errors"
)

// productDirectory resolves the product a review belongs to.
type productDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// userDirectory resolves the reviewing user.
type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CreateReviewInput holds the validated payload to create a review.
type CreateReviewInput struct {
	UserID uuid.UUID
	Rating int
	Review *string
}

// UpdateReviewInput patches mutable review fields. The reviewing user
// never changes.
type UpdateReviewInput struct {
	Rating *int
	Review *string
}

// Service exposes product review operations.
type Service interface {
	CreateReview(ctx context.Context, productID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	GetReview(ctx context.Context, productID, reviewID uuid.UUID) (*ReviewDTO, error)
	ListReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	UpdateReview(ctx context.Context, productID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, productID, reviewID uuid.UUID) error
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	DB       *db.Client
	Products productDirectory
	Users    userDirectory
}

type service struct {
	db       *db.Client
	products productDirectory
	users    userDirectory
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product directory required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user directory required")
	}
	return &service{
		db:       params.DB,
		products: params.Products,
		users:    params.Users,
	}, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// CreateReview persists a review. A user gets one review per product; the
// pre-insert check gives a friendly error and the unique index settles the
// race when two requests slip past it together.
func (s *service) CreateReview(ctx context.Context, productID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "user does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	review := &models.Review{
		ProductID: product.ID,
		UserID:    user.ID,
		Rating:    input.Rating,
		Comment:   input.Review,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		exists, err := repo.ExistsForUser(ctx, product.ID, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "user has already reviewed this product")
		}

		if err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, models.ReviewsProductUserKey) {
				return pkgerrors.New(pkgerrors.CodeConflict, "user has already reviewed this product")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(review, product.Name, user.Username), nil
}

func (s *service) GetReview(ctx context.Context, productID, reviewID uuid.UUID) (*ReviewDTO, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	detail, err := NewRepository(s.db.DB()).FindDetail(ctx, productID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return FromModel(&detail.Review, detail.ProductName, detail.Username), nil
}

func (s *service) ListReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	rows, err := NewRepository(s.db.DB()).ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	dtos := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i].Review, rows[i].ProductName, rows[i].Username))
	}
	return dtos, nil
}

// UpdateReview patches rating and comment. The one-review-per-user rule is
// not rechecked here since the owning user never changes.
func (s *service) UpdateReview(ctx context.Context, productID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		review, err := repo.FindByID(ctx, productID, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
		}

		if input.Rating != nil {
			if err := validateRating(*input.Rating); err != nil {
				return err
			}
			review.Rating = *input.Rating
		}
		if input.Review != nil {
			review.Comment = input.Review
		}

		if err := repo.Update(ctx, review); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetReview(ctx, productID, reviewID)
}

func (s *service) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Delete(ctx, productID, reviewID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
		}
		return nil
	})
}
