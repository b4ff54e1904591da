package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores an opaque single-use refresh token for session rotation and revocation.
// Rows past ExpiresAt are never returned by lookups and are purged by a background sweep.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	Token     string    `gorm:"size:128;not null;uniqueIndex"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
