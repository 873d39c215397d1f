package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// User is created once at registration and never mutated or deleted
// through the API.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`

	Tasks []Task `json:"-" gorm:"foreignKey:OwnerID"`
}

// PublicUser is the projection returned by the auth endpoints. The
// password hash never leaves the store layer.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	}
}
