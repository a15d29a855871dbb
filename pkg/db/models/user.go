package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string       `gorm:"column:username;type:text;not null;uniqueIndex:users_username_key"`
	PasswordHash string       `gorm:"column:password_hash;not null"`
	IsActive     bool         `gorm:"column:is_active;not null;default:true"`
	IsStaff      bool         `gorm:"column:is_staff;not null;default:false"`
	IsSuperuser  bool         `gorm:"column:is_superuser;not null;default:false"`
	Profile      *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
