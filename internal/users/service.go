package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	"github.com/samuelezeh/ecommapp-backend/pkg/db"
	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
	pkgerrors "github.com/samuelezeh/ecommapp-backend/pkg/errors"
	"github.com/samuelezeh/ecommapp-backend/pkg/security"
)

// CreateUserInput holds the validated payload to create a regular user.
// Password is optional; a user created without one simply cannot authenticate.
type CreateUserInput struct {
	Username string
	Password string
	Profile  *ProfileInput
}

// CreateSuperuserInput holds the payload for superuser creation. The staff
// and superuser flags are forced on regardless of the caller.
type CreateSuperuserInput struct {
	Username string
	Password string
}

// UpdateUserInput patches mutable user fields.
type UpdateUserInput struct {
	Password    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// ProfileInput patches mutable profile fields.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	BirthDate *string
}

// Service exposes identity management operations.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	CreateSuperuser(ctx context.Context, input CreateSuperuserInput) (*UserDTO, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context) ([]UserDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*UserDTO, error)
}

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type service struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// CreateUser persists a new user together with its empty profile. Profile
// creation is a deliberate step inside the same transaction rather than a
// side-effect hook, so ordering and failure behavior stay visible.
func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	passwordHash := ""
	if input.Password != "" {
		hashed, err := security.HashPassword(input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		passwordHash = hashed
	}

	return s.create(ctx, CreateUserDTO{
		Username:     username,
		PasswordHash: passwordHash,
	}, input.Profile)
}

// CreateSuperuser persists a staff+superuser account. A password is
// mandatory here.
func (s *service) CreateSuperuser(ctx context.Context, input CreateSuperuserInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "superusers must have a password")
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.create(ctx, CreateUserDTO{
		Username:     username,
		PasswordHash: passwordHash,
		IsStaff:      true,
		IsSuperuser:  true,
	}, nil)
}

func (s *service) create(ctx context.Context, dto CreateUserDTO, profile *ProfileInput) (*UserDTO, error) {
	var created *models.User

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindByUsername(ctx, dto.Username); err == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}

		user, err := repo.Create(ctx, dto)
		if err != nil {
			if db.IsUniqueViolation(err, "users_username_key") {
				return pkgerrors.New(pkgerrors.CodeValidation, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		row := &models.UserProfile{UserID: user.ID}
		if profile != nil {
			if err := applyProfilePatch(row, *profile); err != nil {
				return err
			}
		}
		if err := repo.CreateProfile(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}

		user.Profile = row
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(created), nil
}

// GetUser loads a single user with profile.
func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// ListUsers returns every user, oldest first.
func (s *service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	rows, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// UpdateUser applies a partial patch to the user's credential and flags.
func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	var updated *models.User

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		if input.Password != nil {
			if *input.Password == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "password cannot be empty")
			}
			hashed, err := security.HashPassword(*input.Password, s.passwordCfg)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			user.PasswordHash = hashed
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
		if input.IsStaff != nil {
			user.IsStaff = *input.IsStaff
		}
		if input.IsSuperuser != nil {
			user.IsSuperuser = *input.IsSuperuser
		}

		if err := repo.Update(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(updated), nil
}

// DeleteUser removes the user and everything owned by them.
func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		return nil
	})
}

// UpdateProfile patches the user's profile fields.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*UserDTO, error) {
	var updated *models.User

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		profile := user.Profile
		if profile == nil {
			// Users predating the reactive profile step get one on first write.
			profile = &models.UserProfile{UserID: user.ID}
			if err := applyProfilePatch(profile, input); err != nil {
				return err
			}
			if err := repo.CreateProfile(ctx, profile); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
			}
		} else {
			if err := applyProfilePatch(profile, input); err != nil {
				return err
			}
			if err := repo.UpdateProfile(ctx, profile); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
			}
		}

		user.Profile = profile
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FromModel(updated), nil
}

func applyProfilePatch(profile *models.UserProfile, input ProfileInput) error {
	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
	}
	if input.Email != nil {
		profile.Email = input.Email
	}
	if input.Phone != nil {
		profile.Phone = input.Phone
	}
	if input.Address != nil {
		profile.Address = input.Address
	}
	if input.BirthDate != nil {
		parsed, err := time.Parse(BirthDateLayout, *input.BirthDate)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "birth_date must be YYYY-MM-DD")
		}
		profile.BirthDate = &parsed
	}
	return nil
}
