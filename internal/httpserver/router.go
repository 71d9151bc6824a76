package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"campuseats/internal/domain"
	checkoutsvc "campuseats/internal/service/checkout"
	orderssvc "campuseats/internal/service/orders"
	usersvc "campuseats/internal/service/user"
)

type cartService interface {
	Get(ctx context.Context, owner string) (*domain.Cart, error)
	AddItem(ctx context.Context, owner string, item domain.LineItem, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, owner, id string, bucket domain.Bucket, storeID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner, id string, quantity int, bucket domain.Bucket, storeID string) (*domain.Cart, error)
	AdjustQuantity(ctx context.Context, owner, id string, delta int, bucket domain.Bucket, storeID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, owner string) (*domain.Cart, error)
	ClearBucket(ctx context.Context, owner string, bucket domain.Bucket) (*domain.Cart, error)
	ClearStoreItems(ctx context.Context, owner, storeID string, bucket domain.Bucket) (*domain.Cart, error)
}

type checkoutService interface {
	Assemble(cart *domain.Cart, info domain.UserInfo, pickup domain.PickupInfo, method domain.PaymentMethod, details *domain.PaymentDetails) (checkoutsvc.Payload, error)
	Materialize(ctx context.Context, owner string, payload checkoutsvc.Payload) ([]domain.Transaction, error)
}

type ordersService interface {
	History(ctx context.Context, owner string) ([]domain.Transaction, error)
	ListAll(ctx context.Context, f orderssvc.Filter) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, owner, ref string, to domain.Status) (*domain.Transaction, error)
	Statistics(ctx context.Context) (orderssvc.Stats, error)
}

type catalogService interface {
	Stores(ctx context.Context) ([]domain.Store, error)
	Store(ctx context.Context, id string) (*domain.Store, error)
	StoreProducts(ctx context.Context, storeID string) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
}

type userService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	ParseToken(token string) (*usersvc.Claims, error)
	AccessTTLSeconds() int
}

// Deps carries the services the router needs.
type Deps struct {
	CartSvc        cartService
	CheckoutSvc    checkoutService
	OrdersSvc      ordersService
	CatalogSvc     catalogService
	UserSvc        userService
	Hub            *Hub
	AllowedOrigins string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, kv *redis.Client, deps Deps) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.CheckoutSvc == nil || deps.OrdersSvc == nil || deps.UserSvc == nil {
		return nil, errors.New("missing service dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(prometheusMiddleware())

	corsCfg := cors.DefaultConfig()
	if deps.AllowedOrigins == "" || deps.AllowedOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{deps.AllowedOrigins}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, kv))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/signup", signupHandler(deps.UserSvc))
	router.POST("/login", loginHandler(deps.UserSvc))

	if deps.CatalogSvc != nil {
		router.GET("/stores", listStoresHandler(deps.CatalogSvc))
		router.GET("/stores/:id", getStoreHandler(deps.CatalogSvc))
		router.GET("/stores/:id/products", listStoreProductsHandler(deps.CatalogSvc))
		router.GET("/products/:id", getProductHandler(deps.CatalogSvc))
	}

	authed := router.Group("")
	authed.Use(authRequired(deps.UserSvc))
	{
		authed.GET("/me", meHandler(deps.UserSvc))

		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.GET("/cart/summary", cartSummaryHandler(deps.CartSvc))
		authed.POST("/cart/items", addItemHandler(deps.CartSvc))
		authed.PUT("/cart/items/:id", updateQuantityHandler(deps.CartSvc))
		authed.POST("/cart/items/:id/step", stepQuantityHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:id", removeItemHandler(deps.CartSvc))
		authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

		authed.POST("/checkout", checkoutHandler(deps.CartSvc, deps.CheckoutSvc, deps.UserSvc))
		authed.GET("/orders", orderHistoryHandler(deps.OrdersSvc))
	}

	manage := authed.Group("/manage")
	manage.Use(requireRole(domain.RoleVendor, domain.RoleAdmin))
	{
		manage.GET("/orders", manageOrdersHandler(deps.OrdersSvc))
		manage.GET("/orders/statistics", orderStatisticsHandler(deps.OrdersSvc))
		manage.PUT("/orders/:id/status", updateStatusHandler(deps.OrdersSvc))
		if deps.Hub != nil {
			manage.GET("/orders/feed", deps.Hub.Handle)
		}
	}

	return router, nil
}
