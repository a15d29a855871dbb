package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
)

// BirthDateLayout is the wire format for profile birth dates.
const BirthDateLayout = "2006-01-02"

// UserDTO is the transport shape that omits the stored credential.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	IsActive    bool        `json:"is_active"`
	IsStaff     bool        `json:"is_staff"`
	IsSuperuser bool        `json:"is_superuser"`
	Profile     *ProfileDTO `json:"profile,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProfileDTO is the transport shape of the attached profile.
type ProfileDTO struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	IsActive     *bool
	IsStaff      bool
	IsSuperuser  bool
}

func (d CreateUserDTO) ToModel() *models.User {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return &models.User{
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		IsActive:     active,
		IsStaff:      d.IsStaff,
		IsSuperuser:  d.IsSuperuser,
	}
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		Profile:     profileFromModel(u.Profile),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func profileFromModel(p *models.UserProfile) *ProfileDTO {
	if p == nil {
		return nil
	}
	dto := &ProfileDTO{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		UpdatedAt: p.UpdatedAt,
	}
	if p.BirthDate != nil {
		formatted := p.BirthDate.Format(BirthDateLayout)
		dto.BirthDate = &formatted
	}
	return dto
}
