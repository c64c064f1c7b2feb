package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-client/internal/domain"
)

// respondError maps domain errors onto the notification payloads the UI
// renders. Raw upstream messages never reach the user; they go to the log.
func respondError(c *gin.Context, logger *log.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Please review the highlighted fields.",
			"errors":  verr.Fields,
		})
	case errors.Is(err, domain.ErrInvalidItemID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "That item reference is not valid."})
	case errors.Is(err, domain.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Please log in again."})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "That item is no longer in your cart."})
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrServerError):
		logger.Printf("http: upstream failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "The store had a problem. Please try again."})
	case errors.Is(err, domain.ErrTransport):
		logger.Printf("http: transport failure: %v", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"message": "The store could not be reached. Please try again."})
	default:
		logger.Printf("http: unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong. Please try again."})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
