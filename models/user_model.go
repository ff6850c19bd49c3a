package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	Bio                *string `gorm:"size:500" json:"bio"`
	PhoneNumber        *string `gorm:"size:15" json:"phone_number"`
	Location           *string `gorm:"size:100" json:"location"`
	TimeZone           string  `gorm:"size:50;default:'UTC'" json:"time_zone"`
	LanguagePreference string  `gorm:"size:10;default:'en'" json:"language_preference"`
	IsAvailable        bool    `gorm:"default:true" json:"is_available"`
	ProfilePictureURL  *string `gorm:"size:255" json:"profile_picture_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
