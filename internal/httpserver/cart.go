package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartAddRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity"`
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func cartFetchHandler(logger *log.Logger, carts cartAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Fetch(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func cartAddHandler(logger *log.Logger, carts cartAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "product is required")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		cart, err := carts.Add(c.Request.Context(), req.Product, req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func cartUpdateHandler(logger *log.Logger, carts cartAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "quantity is required")
			return
		}
		cart, err := carts.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func cartRemoveHandler(logger *log.Logger, carts cartAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Remove(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func cartClearHandler(logger *log.Logger, carts cartAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Clear(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
