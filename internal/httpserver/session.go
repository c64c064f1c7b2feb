package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-client/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Usable        bool         `json:"usable"`
	User          *domain.User `json:"user,omitempty"`
}

func toSessionResponse(id domain.Identity) sessionResponse {
	return sessionResponse{
		Authenticated: id.Authenticated(),
		Usable:        id.Usable(),
		User:          id.User,
	}
}

func loginHandler(logger *log.Logger, identity identityAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "email and password are required")
			return
		}
		id, err := identity.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toSessionResponse(id))
	}
}

func registerHandler(logger *log.Logger, identity identityAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "name, email and password are required")
			return
		}
		id, err := identity.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toSessionResponse(id))
	}
}

func logoutHandler(identity identityAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity.Logout(c.Request.Context())
		c.JSON(http.StatusOK, toSessionResponse(domain.Identity{}))
	}
}

func sessionHandler(identity identityAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toSessionResponse(identity.Current()))
	}
}

// requireAdmin rejects admin routes when the locally known profile is not an
// admin. An unknown profile is rejected too; the UI must log in first.
func requireAdmin(identity identityAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Current()
		if !id.Usable() || id.User.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required."})
			return
		}
		c.Next()
	}
}
