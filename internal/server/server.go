// Package server wires handlers, middleware and templates into the HTTP
// server.
package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/config"
	"amazona/internal/handlers"
	"amazona/internal/middleware"
	"amazona/internal/web"
)

const serviceName = "amazona"

// Deps are the collaborators the router needs beyond the handlers.
type Deps struct {
	Handlers  *handlers.Handlers
	Issuer    *auth.Issuer
	Logger    *zap.Logger
	// Redis enables rate limiting on the credential routes when set.
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	UploadDir string
}

type Server struct {
	*http.Server
	logger  *zap.Logger
	closers []func() error
}

func New(cfg *config.Config, deps Deps, closers ...func() error) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	router, err := NewRouter(deps)
	if err != nil {
		return nil, err
	}

	handler := otelhttp.NewHandler(router, serviceName,
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		}),
	)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      handler,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger:  deps.Logger,
		closers: closers,
	}, nil
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(deps Deps) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Base(log)...)
	r.SetHTMLTemplate(tmpl)
	if deps.UploadDir != "" {
		r.Static("/uploads", filepath.Join(deps.UploadDir, "uploads"))
	}

	h := deps.Handlers
	isAuth := middleware.IsAuth(deps.Issuer, log)
	isAdmin := middleware.IsAdmin(log)

	credentials := []gin.HandlerFunc{}
	if deps.Redis != nil {
		credentials = append(credentials, middleware.RateLimit(deps.Redis, middleware.RateLimitConfig{
			Requests:  deps.RateLimit.Requests,
			Window:    deps.RateLimit.Window,
			KeyPrefix: "ratelimit:auth",
		}, log))
	}

	r.GET("/healthz", h.Health())

	r.GET("/", h.HomePage())
	r.GET("/product/:slug", h.ProductPage())
	r.GET("/search", h.SearchPage())
	r.GET("/admin/dashboard", h.AdminDashboardPage())

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", append(credentials, h.Register())...)
		users.POST("/login", append(credentials, h.Login())...)
		users.POST("/logout", h.Logout())
		users.PUT("/profile", isAuth, h.UpdateProfile())
	}

	products := api.Group("/products")
	{
		products.GET("", h.SearchProducts())
		products.GET("/categories", h.GetCategories())
		products.GET("/brands", h.GetBrands())
		products.GET("/slug/:slug", h.GetProductBySlug())
		products.GET("/:id", h.GetProduct())
		products.GET("/:id/reviews", h.ListReviews())
		products.POST("/:id/reviews", isAuth, h.CreateReview())
	}

	orders := api.Group("/orders", isAuth)
	{
		orders.POST("", h.CreateOrder())
		orders.GET("/history", h.OrderHistory())
		orders.GET("/:id", h.GetOrder())
		orders.PUT("/:id/pay", h.PayOrder())
		orders.PUT("/:id/deliver", isAdmin, h.DeliverOrder())
	}

	keys := api.Group("/keys", isAuth)
	{
		keys.GET("/paypal", h.PayPalClientID())
		keys.GET("/google", h.GoogleAPIKey())
	}

	cartRoutes := api.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart())
		cartRoutes.POST("/items", h.AddCartItem())
		cartRoutes.DELETE("/items/:id", h.RemoveCartItem())
		cartRoutes.PUT("/shipping", h.SaveShippingAddress())
		cartRoutes.PUT("/shipping/location", h.SaveShippingLocation())
		cartRoutes.PUT("/payment", h.SavePaymentMethod())
	}
	api.PUT("/preferences/dark-mode", h.SetDarkMode())
	api.GET("/checkout/next", h.CheckoutNext())
	api.POST("/checkout/placeorder", isAuth, h.PlaceOrder())

	admin := api.Group("/admin", isAuth, isAdmin)
	{
		admin.GET("/summary", h.Summary())

		admin.GET("/orders", h.ListOrders())
		admin.DELETE("/orders/:id", h.DeleteOrder())

		admin.GET("/products", h.ListProducts())
		admin.POST("/products", h.CreateProduct())
		admin.GET("/products/:id", h.GetProduct())
		admin.PUT("/products/:id", h.UpdateProduct())
		admin.DELETE("/products/:id", h.DeleteProduct())
		admin.POST("/upload", h.UploadImage())

		admin.GET("/users", h.ListUsers())
		admin.GET("/users/:id", h.GetUser())
		admin.PUT("/users/:id", h.UpdateUser())
		admin.DELETE("/users/:id", h.DeleteUser())
	}

	return r, nil
}

// Close releases the resources handed to New, in order.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			s.logger.Error("Failed to close resource", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
	return nil
}
