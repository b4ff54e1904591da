package main

import (
	"context"
	"errors"

	"myshop/models"
	"myshop/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session issuance failures.
var (
	// ErrRefreshDenied is returned when the presented refresh token is
	// expired, replayed or unknown. The cases are deliberately not
	// distinguishable by the caller.
	ErrRefreshDenied = errors.New("refresh denied")
	// ErrUserGone means the refresh token was valid but its owning account
	// no longer exists. The token has already been consumed at that point.
	ErrUserGone = errors.New("user not found")
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionIssuer is the only component that talks to both the token signer
// and the refresh-token registry.
type SessionIssuer struct {
	signer   *token.Signer
	registry *Registry
	db       *gorm.DB
}

func NewSessionIssuer(signer *token.Signer, registry *Registry, db *gorm.DB) *SessionIssuer {
	return &SessionIssuer{signer: signer, registry: registry, db: db}
}

// Start mints one access token and one fresh refresh-token record for the
// user. Both must succeed; there is no partial session.
func (s *SessionIssuer) Start(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.signer.Issue(user.ID.String(), user.Roles)
	if err != nil {
		return nil, err
	}
	refresh, err := s.registry.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate consumes the presented refresh token and issues a replacement pair.
// The consume happens first and is unconditional: even if the user lookup or
// issuance fails afterwards, the presented token is gone. Losing a session to
// a mid-rotation failure is the accepted price for never leaving a reusable
// refresh token behind.
func (s *SessionIssuer) Rotate(ctx context.Context, presented string) (*TokenPair, *models.User, error) {
	userID, err := s.registry.Consume(ctx, presented)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, nil, ErrRefreshDenied
		}
		return nil, nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserGone
		}
		return nil, nil, err
	}
	pair, err := s.Start(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	return pair, &user, nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func checkPassword(hashed []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password))
}
