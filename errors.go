package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiError is a tagged failure: handlers attach one to the gin context and
// the boundary middleware translates it to a status code and JSON body.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

const codeAccessTokenExpired = "ACCESS_TOKEN_EXPIRED"

// The challenge value the client interceptor keys on. Only the
// signature-valid-but-expired case carries it.
const wwwAuthenticateExpired = `Bearer error="token_expired", error_description="the access token expired"`

func errValidation(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func errConflict(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func errUnauthorized(msg string) *apiError {
	return &apiError{status: http.StatusUnauthorized, message: msg}
}

func errNotFound(msg string) *apiError {
	return &apiError{status: http.StatusNotFound, message: msg}
}

func errTokenExpired() *apiError {
	return &apiError{status: http.StatusUnauthorized, code: codeAccessTokenExpired, message: "Expired access token"}
}

// errorBoundary is the single translator from tagged failures to transport
// responses. Handlers never write error bodies themselves; they record the
// error and return.
func errorBoundary() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		var apiErr *apiError
		if !errors.As(err, &apiErr) {
			apiErr = &apiError{status: http.StatusInternalServerError, message: "Internal server error"}
		}
		if apiErr.code == codeAccessTokenExpired {
			c.Header("WWW-Authenticate", wwwAuthenticateExpired)
		}
		c.JSON(apiErr.status, gin.H{"message": apiErr.message})
	}
}
