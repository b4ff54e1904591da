package main

import (
	"errors"
	"net/http"

	"myshop/models"
	"myshop/pkg/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupRoutes(r *gin.Engine) {
	r.Use(errorBoundary())

	authGroup := r.Group("/auth")
	authGroup.POST("/register", registerHandler)
	authGroup.POST("/login", loginHandler)
	authGroup.POST("/refresh", refreshHandler)
	authGroup.DELETE("/logout", logoutHandler)
	authGroup.GET("/me", meHandler)

	orderGroup := r.Group("/orders")
	orderGroup.Use(authRequired())
	orderGroup.GET("", listOrdersHandler)
	orderGroup.POST("", createOrderHandler)
	orderGroup.GET("/:id", getOrderHandler)
	orderGroup.PUT("/:id", updateOrderHandler)
	orderGroup.DELETE("/:id", deleteOrderHandler)
	orderGroup.GET("/:id/pdf", orderPDFHandler)

	r.POST("/contact", contactHandler)

	setupDocsRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})
}

// authRequired verifies the access-token cookie and attaches the caller's
// identity to the context. An expired-but-valid token gets the refresh
// signal; every other failure is a generic 401.
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(accessCookieName)
		if err != nil {
			c.Error(errUnauthorized("Access token is required"))
			c.Abort()
			return
		}
		claims, err := signer.Verify(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				c.Error(errTokenExpired())
			} else {
				c.Error(errUnauthorized("Invalid access token"))
			}
			c.Abort()
			return
		}
		c.Set("userID", claims.Subject)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

func hasRole(c *gin.Context, role string) bool {
	roles, _ := c.Get("roles")
	rs, ok := roles.([]string)
	if !ok {
		return false
	}
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

func registerHandler(c *gin.Context) {
	var req registerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errValidation("Please provide a valid email and a secure password."))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.Error(errConflict("Email already exists"))
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	user := models.User{
		Email:          req.Email,
		HashedPassword: hashed,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Roles:          req.Roles,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the initial check
			c.Error(errConflict("Email already exists"))
			return
		}
		c.Error(err)
		return
	}

	pair, err := sessions.Start(c.Request.Context(), &user)
	if err != nil {
		c.Error(err)
		return
	}
	cookies.setSession(c, pair)
	c.JSON(http.StatusCreated, gin.H{"message": "Registered"})
}

func loginHandler(c *gin.Context) {
	var req loginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errValidation("Please provide a valid email and a secure password."))
		return
	}
	if err := req.validate(); err != nil {
		c.Error(err)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.Error(errNotFound("User not found"))
		return
	}
	if err := checkPassword(user.HashedPassword, req.Password); err != nil {
		c.Error(errUnauthorized("Incorrect credentials"))
		return
	}

	pair, err := sessions.Start(c.Request.Context(), &user)
	if err != nil {
		c.Error(err)
		return
	}
	cookies.setSession(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

func refreshHandler(c *gin.Context) {
	presented, err := c.Cookie(refreshCookieName)
	if err != nil {
		c.Error(errUnauthorized("Refresh token is required"))
		return
	}

	pair, _, err := sessions.Rotate(c.Request.Context(), presented)
	if err != nil {
		switch err {
		case ErrRefreshDenied:
			c.Error(errUnauthorized("Refresh token not found"))
		case ErrUserGone:
			c.Error(errUnauthorized("User not found"))
		default:
			c.Error(err)
		}
		return
	}
	cookies.setSession(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Refreshed"})
}

func logoutHandler(c *gin.Context) {
	if presented, err := c.Cookie(refreshCookieName); err == nil {
		// best effort: an unknown token is not an error
		if err := registry.Revoke(c.Request.Context(), presented); err != nil {
			c.Error(err)
			return
		}
	}
	cookies.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func meHandler(c *gin.Context) {
	tokenString, err := c.Cookie(accessCookieName)
	if err != nil {
		c.Error(errUnauthorized("Access token is required"))
		return
	}
	claims, err := signer.Verify(tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			c.Error(errTokenExpired())
		} else {
			c.Error(errUnauthorized("Invalid access token"))
		}
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.Subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(errNotFound("User not found"))
		} else {
			c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Valid token", "user": user})
}
