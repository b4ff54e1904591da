// Package token issues and verifies the short-lived signed access token.
// It is a pure function of the secret, the clock and the input; the signing
// secret lives here and nowhere else.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Expired is distinguished from Malformed because it
// drives the client-side refresh signal.
var (
	ErrMalformed      = errors.New("malformed access token")
	ErrExpired        = errors.New("access token expired")
	ErrMissingSubject = errors.New("access token has no subject")
)

// Claims carried by an access token: subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// Signer creates and verifies HS256 access tokens with a fixed validity window.
type Signer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewSigner(secret []byte, validity time.Duration) *Signer {
	return &Signer{secret: secret, validity: validity, now: time.Now}
}

// WithClock returns a copy of the signer that reads time from now. Lets
// tests travel in time without waiting out the validity window.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	c := *s
	c.now = now
	return &c
}

// Issue signs a new access token for userID carrying the given roles.
func (s *Signer) Issue(userID string, roles []string) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Roles: roles,
	})
	return t.SignedString(s.secret)
}

// Verify parses and validates tokenString. It returns ErrExpired only when
// the signature checks out and the expiry has passed, ErrMissingSubject when
// the signature checks out but the subject claim is absent, and ErrMalformed
// for everything else.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !t.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
