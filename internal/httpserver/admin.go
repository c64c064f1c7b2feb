package httpserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-client/internal/report"
)

func adminProductsHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.AdminProducts(c.Request.Context(), c.Request.URL.Query())
		relayJSON(c, logger, payload, err)
	}
}

func adminCreateProductHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			respondBadRequest(c, "product body is required")
			return
		}
		payload, err := relay.CreateProduct(c.Request.Context(), json.RawMessage(body))
		relayJSON(c, logger, payload, err)
	}
}

func adminUpdateProductHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			respondBadRequest(c, "product body is required")
			return
		}
		payload, err := relay.UpdateProduct(c.Request.Context(), c.Param("id"), json.RawMessage(body))
		relayJSON(c, logger, payload, err)
	}
}

func adminDeleteProductHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := relay.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type inventoryRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func adminInventoryHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inventoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil || *req.Quantity < 0 {
			respondBadRequest(c, "quantity must be zero or more")
			return
		}
		payload, err := relay.UpdateInventory(c.Request.Context(), c.Param("id"), *req.Quantity)
		relayJSON(c, logger, payload, err)
	}
}

// adminSalesReportHandler relays the sales report, or reshapes it into a CSV
// download when asked with ?format=csv.
func adminSalesReportHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		format := query.Get("format")
		query.Del("format")

		payload, err := relay.SalesReport(c.Request.Context(), query)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if format != "csv" {
			c.Data(http.StatusOK, "application/json", payload)
			return
		}

		rows, err := report.ParseOrders(payload)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="sales-report.csv"`)
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := report.WriteSalesCSV(c.Writer, rows); err != nil {
			logger.Printf("http: write sales csv: %v", err)
		}
	}
}

func adminInventoryReportHandler(logger *log.Logger, relay relayAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := relay.InventoryReport(c.Request.Context())
		relayJSON(c, logger, payload, err)
	}
}
