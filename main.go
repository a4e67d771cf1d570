package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/cart"
	"amazona/internal/config"
	"amazona/internal/database"
	"amazona/internal/handlers"
	"amazona/internal/logger"
	"amazona/internal/server"
	"amazona/internal/store"
)

func gracefulShutdown(srv *server.Server, log *zap.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		log.Error("Error closing server resources", zap.Error(err))
	}

	log.Info("Server exiting")
	close(done)
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	log.Info("Starting amazona",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	db := client.Database(cfg.Mongo.DBName)
	log.Info("MongoDB connected", zap.String("db", db.Name()))

	if err := database.EnsureIndexes(ctx, db, log); err != nil {
		log.Warn("index bootstrap incomplete", zap.Error(err))
	}

	closers := []func() error{
		func() error { return client.Disconnect(context.Background()) },
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, rate limiting fails open", zap.Error(err))
		}
		closers = append(closers, rdb.Close)
	}

	st := store.New(db)
	issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	h := handlers.New(handlers.Options{
		Users:          st.Users,
		Products:       st.Products,
		Orders:         st.Orders,
		Summary:        st,
		Issuer:         issuer,
		Cookies:        cart.Cookies{Secure: cfg.IsProduction()},
		Logger:         log,
		PayPalClientID: cfg.Keys.PayPalClientID,
		GoogleAPIKey:   cfg.Keys.GoogleAPIKey,
		UploadDir:      cfg.Uploads.Dir,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	srv, err := server.New(cfg, server.Deps{
		Handlers:  h,
		Issuer:    issuer,
		Logger:    log,
		Redis:     rdb,
		RateLimit: cfg.RateLimit,
		UploadDir: cfg.Uploads.Dir,
	}, closers...)
	if err != nil {
		log.Fatal("server setup failed", zap.Error(err))
	}

	done := make(chan struct{})
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
