package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	"github.com/samuelezeh/ecommapp-backend/pkg/db"
	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
	pkgerrors "github.com/samuelezeh/ecommapp-backend/pkg/errors"
)

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput patches mutable category fields.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// Service exposes category catalog operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ServiceParams groups dependencies for the categories service.
type ServiceParams struct {
	DB      *db.Client
	Catalog config.CatalogConfig
}

type service struct {
	db      *db.Client
	catalog config.CatalogConfig
}

// NewService builds a categories service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{
		db:      params.DB,
		catalog: params.Catalog,
	}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
	}
	if err := NewRepository(s.db.DB()).Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return FromModel(category, 0), nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	repo := NewRepository(s.db.DB())

	category, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	total, err := repo.CountProducts(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return FromModel(category, total), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	repo := NewRepository(s.db.DB())

	rows, err := repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	counts, err := repo.CountProductsByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], counts[rows[i].ID]))
	}
	return dtos, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	var dto *CategoryDTO

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		category, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
			}
			category.Name = name
		}
		if input.Description != nil {
			category.Description = input.Description
		}

		if err := repo.Update(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}

		total, err := repo.CountProducts(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
		}
		dto = FromModel(category, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// DeleteCategory removes a category. Under the restrict policy a category
// that still has products is refused with a conflict; under cascade its
// products go with it.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		if !s.catalog.CascadesProducts() {
			total, err := repo.CountProducts(ctx, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
			}
			if total > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
			}
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		return nil
	})
}
