package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"myshop/models"
	"myshop/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) (*SessionIssuer, *models.User) {
	t.Helper()
	gdb := setupTestDB(t)
	s := token.NewSigner([]byte(strings.Repeat("k", 64)), 15*time.Minute)
	reg := NewRegistry(gdb, time.Hour)
	issuer := NewSessionIssuer(s, reg, gdb)

	hashed, err := hashPassword("Abcdef1!aaaaa")
	require.NoError(t, err)
	user := &models.User{Email: "alice@example.com", HashedPassword: hashed, FirstName: "Alice", LastName: "A"}
	require.NoError(t, gdb.Create(user).Error)
	return issuer, user
}

func TestStartSessionIssuesBothTokens(t *testing.T) {
	issuer, user := newTestIssuer(t)

	pair, err := issuer.Start(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := issuer.signer.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, []string{"user"}, claims.Roles)
}

func TestRotateSucceedsExactlyOnce(t *testing.T) {
	issuer, user := newTestIssuer(t)
	ctx := context.Background()

	pair, err := issuer.Start(ctx, user)
	require.NoError(t, err)

	next, rotatedUser, err := issuer.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, rotatedUser.ID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the consumed token is dead regardless of the rotation's success
	_, _, err = issuer.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshDenied)

	// the replacement works
	_, _, err = issuer.Rotate(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestRotateUnknownTokenDenied(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	_, _, err := issuer.Rotate(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrRefreshDenied)
}

func TestRotateConsumesEvenWhenUserDeleted(t *testing.T) {
	issuer, user := newTestIssuer(t)
	ctx := context.Background()

	pair, err := issuer.Start(ctx, user)
	require.NoError(t, err)

	require.NoError(t, issuer.db.Delete(&models.User{}, "id = ?", user.ID).Error)

	_, _, err = issuer.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUserGone)

	// the presented token was consumed before the lookup failed
	_, _, err = issuer.Rotate(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshDenied)
}

func TestConcurrentRotateSingleWinner(t *testing.T) {
	issuer, user := newTestIssuer(t)
	ctx := context.Background()

	pair, err := issuer.Start(ctx, user)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, err := issuer.Rotate(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success, denied := 0, 0
	for err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrRefreshDenied):
			denied++
		default:
			t.Fatalf("unexpected rotate error: %v", err)
		}
	}
	assert.Equal(t, 1, success, "exactly one rotation must win")
	assert.Equal(t, n-1, denied)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := hashPassword("Abcdef1!aaaaa")
	require.NoError(t, err)
	require.NoError(t, checkPassword(hashed, "Abcdef1!aaaaa"))
	assert.Error(t, checkPassword(hashed, "wrong-password"))
}
