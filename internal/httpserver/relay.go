package httpserver

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// relayJSON writes an upstream payload through unchanged.
func relayJSON(c *gin.Context, logger *log.Logger, payload json.RawMessage, err error) {
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func productsHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.Products(c.Request.Context(), c.Request.URL.Query())
		relayJSON(c, logger, payload, err)
	}
}

func productByIDHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.ProductByID(c.Request.Context(), c.Param("id"))
		relayJSON(c, logger, payload, err)
	}
}

func ordersHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.Orders(c.Request.Context())
		relayJSON(c, logger, payload, err)
	}
}

func orderByIDHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.OrderByID(c.Request.Context(), c.Param("id"))
		relayJSON(c, logger, payload, err)
	}
}

type orderCancelRequest struct {
	Reason string `json:"reason"`
}

func orderCancelHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderCancelRequest
		_ = c.ShouldBindJSON(&req)
		payload, err := relay.CancelOrder(c.Request.Context(), c.Param("id"), req.Reason)
		relayJSON(c, logger, payload, err)
	}
}

func paymentVerifyHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.VerifyPayment(c.Request.Context(), c.Param("reference"))
		relayJSON(c, logger, payload, err)
	}
}
