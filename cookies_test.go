package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindCookies(b cookieBinder, write func(cookieBinder, *gin.Context)) []*http.Cookie {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	write(b, c)
	res := http.Response{Header: rec.Header()}
	return res.Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestProductionCookieAttributes(t *testing.T) {
	b := cookieBinder{production: true, refreshTTL: 30 * 24 * time.Hour}
	pair := &TokenPair{AccessToken: "acc", RefreshToken: "ref"}

	cookies := bindCookies(b, func(b cookieBinder, c *gin.Context) { b.setSession(c, pair) })
	require.Len(t, cookies, 2)

	refresh := cookieByName(cookies, refreshCookieName)
	require.NotNil(t, refresh)
	assert.Equal(t, "ref", refresh.Value)
	assert.Equal(t, "/", refresh.Path)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
	assert.Equal(t, http.SameSiteNoneMode, refresh.SameSite)
	assert.True(t, refresh.Partitioned)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), refresh.MaxAge)

	access := cookieByName(cookies, accessCookieName)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Zero(t, access.MaxAge, "access cookie carries no Max-Age")
}

func TestDevelopmentCookieAttributes(t *testing.T) {
	b := cookieBinder{production: false, refreshTTL: time.Hour}
	pair := &TokenPair{AccessToken: "acc", RefreshToken: "ref"}

	cookies := bindCookies(b, func(b cookieBinder, c *gin.Context) { b.setSession(c, pair) })
	require.Len(t, cookies, 2)

	for _, ck := range cookies {
		assert.False(t, ck.Secure)
		assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
		assert.False(t, ck.Partitioned)
	}
}

// Deleting a cookie only works in-browser when the clear instruction matches
// the attributes used to set it.
func TestClearMatchesSetAttributes(t *testing.T) {
	for _, production := range []bool{true, false} {
		b := cookieBinder{production: production, refreshTTL: time.Hour}
		pair := &TokenPair{AccessToken: "acc", RefreshToken: "ref"}

		set := bindCookies(b, func(b cookieBinder, c *gin.Context) { b.setSession(c, pair) })
		cleared := bindCookies(b, func(b cookieBinder, c *gin.Context) { b.clearSession(c) })
		require.Len(t, cleared, 2)

		for _, ck := range cleared {
			orig := cookieByName(set, ck.Name)
			require.NotNil(t, orig)
			assert.Empty(t, ck.Value)
			assert.Less(t, ck.MaxAge, 0, "clear instruction expires immediately")
			assert.Equal(t, orig.Path, ck.Path)
			assert.Equal(t, orig.HttpOnly, ck.HttpOnly)
			assert.Equal(t, orig.Secure, ck.Secure)
			assert.Equal(t, orig.SameSite, ck.SameSite)
			assert.Equal(t, orig.Partitioned, ck.Partitioned)
		}
	}
}
