package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-client/internal/service/checkout"
)

func checkoutHandler(logger *log.Logger, gate checkoutAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form checkout.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			respondBadRequest(c, "shipping form could not be read")
			return
		}
		conf, err := gate.Submit(c.Request.Context(), form)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, conf)
	}
}
