package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// cookieBinder maps a session onto cookie write instructions. The refresh
// cookie carries the store-backed TTL; the access cookie is session-scoped
// because its own embedded expiry is what matters.
type cookieBinder struct {
	production bool
	refreshTTL time.Duration
}

func (b cookieBinder) setSession(c *gin.Context, pair *TokenPair) {
	b.write(c, refreshCookieName, pair.RefreshToken, int(b.refreshTTL.Seconds()))
	b.write(c, accessCookieName, pair.AccessToken, 0)
}

// clearSession emits delete instructions with the exact attribute set used to
// write the cookies. Browsers silently ignore a clear whose scope differs
// from the original.
func (b cookieBinder) clearSession(c *gin.Context) {
	b.write(c, refreshCookieName, "", -1)
	b.write(c, accessCookieName, "", -1)
}

func (b cookieBinder) write(c *gin.Context, name, value string, maxAge int) {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.production,
	}
	if b.production {
		// cross-site storefront in production; Partitioned keeps the pair
		// usable under third-party-cookie restrictions
		ck.SameSite = http.SameSiteNoneMode
		ck.Partitioned = true
	} else {
		ck.SameSite = http.SameSiteStrictMode
	}
	http.SetCookie(c.Writer, ck)
}
