package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safescan/backend/config"
	httpDelivery "github.com/safescan/backend/internal/delivery/http"
	"github.com/safescan/backend/internal/domain"
	"github.com/safescan/backend/internal/infrastructure/cache"
	"github.com/safescan/backend/internal/infrastructure/openfoodfacts"
	"github.com/safescan/backend/internal/infrastructure/persistence"
	"github.com/safescan/backend/internal/infrastructure/storage"
	"github.com/safescan/backend/internal/infrastructure/token"
	"github.com/safescan/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SafeScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Database: %s", cfg.Database.Driver)
	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	db, err := persistence.Open(persistence.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.Server.Environment == "development",
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer persistence.Close(db)

	productCache, err := newCache(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer productCache.Close()

	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		RequestsPerSecond: cfg.OpenFoodFacts.RequestsPerSecond,
		Burst:             cfg.OpenFoodFacts.Burst,
	})
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}
	log.Printf("Open Food Facts API: %s (%.2f req/s)", cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.RequestsPerSecond)

	images, err := storage.NewDiskImageStore(cfg.Upload.Dir, "/uploads", cfg.Upload.MaxSize)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	userRepo := persistence.NewUserRepository(db)
	tokens := token.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := usecase.NewAuthService(userRepo, tokens, usecase.AuthServiceConfig{
		AdminEmails: cfg.Auth.AdminEmails,
	})
	userService := usecase.NewUserService(userRepo, 0)
	listService := usecase.NewListService(persistence.NewListRepository(db))
	productService := usecase.NewProductService(
		persistence.NewProductRepository(db),
		listService,
		productCache,
		offClient,
		usecase.ProductServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	handler := httpDelivery.NewHandler(authService, userService, listService, productService, images)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

type closableCache interface {
	domain.CacheRepository
	io.Closer
}

// newCache picks the cache backend from configuration
func newCache(cfg *config.Config) (closableCache, error) {
	if cfg.Cache.Type == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	}
	return cache.NewMemoryCache(), nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
