package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"myshop/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTokenNotFound covers every way a refresh token can be unusable: never
// issued, already consumed, or expired. Callers must not distinguish them.
var ErrTokenNotFound = errors.New("refresh token not found")

const refreshTokenBytes = 25

// Registry is the single source of truth for refresh-token validity. Tokens
// are opaque random strings (not signed), so revocation is a store delete.
type Registry struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewRegistry(db *gorm.DB, ttl time.Duration) *Registry {
	return &Registry{db: db, ttl: ttl, now: time.Now}
}

// Create generates a random refresh token, persists it with an expiry of
// now+TTL and returns the plaintext token. A storage-level collision on the
// token string fails the operation; it is not retried.
func (r *Registry) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	tok := hex.EncodeToString(b)
	rt := models.RefreshToken{Token: tok, UserID: userID, ExpiresAt: r.now().Add(r.ttl)}
	if err := r.db.WithContext(ctx).Create(&rt).Error; err != nil {
		return "", err
	}
	return tok, nil
}

// Consume atomically deletes the record matching tok and returns its owner.
// The single guarded DELETE means two concurrent calls with the same token
// can never both succeed. Expired records are invisible here regardless of
// whether the sweeper has purged them yet.
func (r *Registry) Consume(ctx context.Context, tok string) (uuid.UUID, error) {
	var rt models.RefreshToken
	res := r.db.WithContext(ctx).Clauses(clause.Returning{}).
		Where("token = ? AND expires_at > ?", tok, r.now()).
		Delete(&rt)
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, ErrTokenNotFound
	}
	return rt.UserID, nil
}

// Revoke deletes the record matching tok. Absence is not an error.
func (r *Registry) Revoke(ctx context.Context, tok string) error {
	return r.db.WithContext(ctx).Where("token = ?", tok).Delete(&models.RefreshToken{}).Error
}

// PurgeExpired deletes every record whose expiry has elapsed and returns the
// number of rows removed.
func (r *Registry) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", r.now()).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

// StartSweeper purges expired tokens every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if _, err := r.PurgeExpired(ctx); err != nil {
					log.Printf("refresh token sweep failed: %v", err)
				}
			}
		}
	}()
}
