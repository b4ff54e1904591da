package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User model
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte    `gorm:"not null" json:"-"`
	FirstName      string    `gorm:"size:50" json:"firstName"`
	LastName       string    `gorm:"size:50" json:"lastName"`
	Roles          []string  `gorm:"serializer:json;not null" json:"roles"`
}

// BeforeCreate assigns the id and the default role set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if len(u.Roles) == 0 {
		u.Roles = []string{"user"}
	}
	return nil
}
