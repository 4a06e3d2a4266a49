package router

import (
	"github.com/cosecha/backend/internal/interfaces/http/handler"
	"github.com/cosecha/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers are the HTTP handlers exposed by the API
type Handlers struct {
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	ProducerOrder *handler.ProducerOrderHandler
	Health        *handler.HealthHandler
}

// Config controls how the route groups are guarded
type Config struct {
	JWT       middleware.JWTMiddlewareConfig
	Resolver  middleware.IdentityResolver
	Profiling middleware.ProfilingConfig
	Swagger   bool
}

// CustomerRoutes are the cart and order routes of a customer
func CustomerRoutes(h Handlers, cfg Config) *DomainGroup {
	g := NewDomainGroup("customer", "").
		Use(
			middleware.JWTAuth(cfg.JWT),
			middleware.RequireCustomer(cfg.Resolver),
			middleware.SpanEnricher(),
			middleware.Profiling(cfg.Profiling),
		)

	g.Group("cart", "/cart").
		GET("", h.Cart.View).
		DELETE("", h.Cart.Clear).
		POST("/items", h.Cart.AddItem).
		POST("/items/:article_id/decrement", h.Cart.DecrementItem)

	g.Group("orders", "/orders").
		POST("", h.Order.Create).
		GET("", h.Order.List).
		GET("/:id", h.Order.Get).
		POST("/:id/cancel", h.Order.Cancel)

	return g
}

// ProducerRoutes are the routes a producer uses to fulfil its orders
func ProducerRoutes(h Handlers, cfg Config) *DomainGroup {
	g := NewDomainGroup("producer", "/producer").
		Use(
			middleware.JWTAuth(cfg.JWT),
			middleware.RequireProducer(cfg.Resolver),
			middleware.SpanEnricher(),
			middleware.Profiling(cfg.Profiling),
		)

	g.Group("producer-orders", "/orders").
		GET("", h.ProducerOrder.List).
		GET("/:id", h.ProducerOrder.Get).
		PATCH("/:id/status", h.ProducerOrder.UpdateStatus).
		GET("/:id/packing-slip", h.ProducerOrder.PackingSlip)

	return g
}

// Setup mounts the probes, API docs and versioned API on engine
func Setup(engine *gin.Engine, h Handlers, cfg Config, opts ...Option) {
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	if cfg.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := NewRouter(engine, opts...).
		Register(CustomerRoutes(h, cfg), ProducerRoutes(h, cfg)).
		Setup()
	api.GET("/health", h.Health.Health)
}
