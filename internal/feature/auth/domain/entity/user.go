package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. Password and RefreshToken never leave the service.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:15;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string    `gorm:"size:50;not null;index" json:"fullName"`
	Avatar       string    `gorm:"size:2048;not null" json:"avatar"`
	CoverImage   string    `gorm:"size:2048;not null;default:''" json:"coverImage"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	RefreshToken *string   `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the sanitized projection of User returned to clients.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PublicColumns lists the columns selected into PublicUser.
var PublicColumns = []string{"id", "username", "email", "full_name", "avatar", "cover_image", "created_at", "updated_at"}

// TableName maps PublicUser onto the users table.
func (PublicUser) TableName() string { return "users" }

// Public returns the sanitized projection of u.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
