package httpserver

import (
	"context"
	"encoding/json"
	"log"
	"net/url"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-client/internal/domain"
	"storefront-client/internal/service/checkout"
)

// identityAPI is the identity service surface the handlers use.
type identityAPI interface {
	Current() domain.Identity
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, name, email, password string) (domain.Identity, error)
	Logout(ctx context.Context)
}

// cartAPI is the cart service surface.
type cartAPI interface {
	Cart() domain.Cart
	Fetch(ctx context.Context) (domain.Cart, error)
	Add(ctx context.Context, productID interface{}, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, itemID interface{}, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, itemID interface{}) (domain.Cart, error)
	Clear(ctx context.Context) (domain.Cart, error)
}

// checkoutAPI is the checkout gate surface.
type checkoutAPI interface {
	Submit(ctx context.Context, form checkout.Form) (checkout.Confirmation, error)
}

// relayAPI covers the upstream endpoints the gateway passes through
// untouched: catalog reads, order reads, and the admin console.
type relayAPI interface {
	Products(ctx context.Context, query url.Values) (json.RawMessage, error)
	ProductByID(ctx context.Context, id string) (json.RawMessage, error)
	Orders(ctx context.Context) (json.RawMessage, error)
	OrderByID(ctx context.Context, id string) (json.RawMessage, error)
	CancelOrder(ctx context.Context, id, reason string) (json.RawMessage, error)
	VerifyPayment(ctx context.Context, reference string) (json.RawMessage, error)
	AdminProducts(ctx context.Context, query url.Values) (json.RawMessage, error)
	CreateProduct(ctx context.Context, product json.RawMessage) (json.RawMessage, error)
	UpdateProduct(ctx context.Context, id string, product json.RawMessage) (json.RawMessage, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateInventory(ctx context.Context, id string, quantity int) (json.RawMessage, error)
	SalesReport(ctx context.Context, query url.Values) (json.RawMessage, error)
	InventoryReport(ctx context.Context) (json.RawMessage, error)
}

// Deps carries everything the routes need.
type Deps struct {
	Identity identityAPI
	Carts    cartAPI
	Checkout checkoutAPI
	Relay    relayAPI
}

// buildRouter wires routes for the gateway.
func buildRouter(logger *log.Logger, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", healthHandler)

	api := router.Group("/api")

	api.POST("/session/login", loginHandler(logger, deps.Identity))
	api.POST("/session/register", registerHandler(logger, deps.Identity))
	api.POST("/session/logout", logoutHandler(deps.Identity))
	api.GET("/session", sessionHandler(deps.Identity))

	api.GET("/products", productsHandler(logger, deps.Relay))
	api.GET("/products/:id", productByIDHandler(logger, deps.Relay))

	api.GET("/cart", cartFetchHandler(logger, deps.Carts))
	api.POST("/cart", cartAddHandler(logger, deps.Carts))
	api.PUT("/cart/:id", cartUpdateHandler(logger, deps.Carts))
	api.DELETE("/cart/:id", cartRemoveHandler(logger, deps.Carts))
	api.DELETE("/cart", cartClearHandler(logger, deps.Carts))

	api.POST("/checkout", checkoutHandler(logger, deps.Checkout))

	api.GET("/orders", ordersHandler(logger, deps.Relay))
	api.GET("/orders/:id", orderByIDHandler(logger, deps.Relay))
	api.POST("/orders/:id/cancel", orderCancelHandler(logger, deps.Relay))
	api.GET("/payments/verify/:reference", paymentVerifyHandler(logger, deps.Relay))

	// Role enforcement is the server's; this gate only spares the round trip
	// when the local profile already says the user is not an admin.
	admin := api.Group("/admin", requireAdmin(deps.Identity))
	admin.GET("/products", adminProductsHandler(logger, deps.Relay))
	admin.POST("/products", adminCreateProductHandler(logger, deps.Relay))
	admin.PATCH("/products/:id", adminUpdateProductHandler(logger, deps.Relay))
	admin.DELETE("/products/:id", adminDeleteProductHandler(logger, deps.Relay))
	admin.PATCH("/products/:id/inventory", adminInventoryHandler(logger, deps.Relay))
	admin.GET("/reports/sales", adminSalesReportHandler(logger, deps.Relay))
	admin.GET("/reports/inventory", adminInventoryReportHandler(logger, deps.Relay))

	return router
}
