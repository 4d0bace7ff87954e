package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Narutostha/ww/internal/cache"
	"github.com/Narutostha/ww/internal/cart"
	"github.com/Narutostha/ww/internal/catalog"
	"github.com/Narutostha/ww/internal/checkout"
	"github.com/Narutostha/ww/internal/events"
	h "github.com/Narutostha/ww/internal/http"
	"github.com/Narutostha/ww/internal/identity"
	"github.com/Narutostha/ww/internal/orders"
	"github.com/Narutostha/ww/internal/publisher"
	"github.com/Narutostha/ww/internal/repository"
)

type Config struct {
	HTTPPort        string
	AuthBaseURL     string
	AuthAPIKey      string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	ShippingFee     decimal.Decimal
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	fee, err := decimal.NewFromString(getEnv("SHIPPING_FEE", "100"))
	if err != nil {
		log.Fatalf("Invalid SHIPPING_FEE: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		AuthBaseURL:     getEnv("AUTH_BASE_URL", "http://localhost:9999"),
		AuthAPIKey:      getEnv("AUTH_API_KEY", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ShippingFee:     fee,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront starting...")

	cfg := loadConfig()

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "storefront")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Redis for the product cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Auth provider client
	authClient := identity.NewClient(cfg.AuthBaseURL, cfg.AuthAPIKey, 5*time.Second)

	// Domain services
	notifier := events.NewNotifier()
	notifier.Subscribe(func(ev events.OrderEvent) {
		log.Printf("order event: type=%s order=%s user=%s status=%s", ev.Type, ev.OrderID, ev.UserID, ev.Status)
	})

	cartStore := cart.NewStore()
	catalogService := catalog.NewService(repo, cache.NewRedisCache(redisClient))
	checkoutService := checkout.NewService(repo, cartStore, notifier, cfg.ShippingFee)
	ordersService := orders.NewService(repo, notifier)

	// A placed order decremented stock, so the cached products are stale.
	notifier.Subscribe(catalogService.HandleOrderEvent)

	// Outbox poller drains ORDER_PLACED rows to Kafka in the background.
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	go poller.Run(pollerCtx)
	defer poller.Close()
	defer stopPoller()

	// HTTP handlers
	router := h.NewRouter(h.RouterDeps{
		Cart:           h.NewCartHandler(cartStore, catalogService, cfg.RequestTimeout),
		Checkout:       h.NewCheckoutHandler(checkoutService, cartStore, cfg.RequestTimeout),
		Products:       h.NewProductHandler(catalogService, cfg.RequestTimeout),
		Orders:         h.NewOrdersHandler(ordersService, cfg.RequestTimeout),
		Admin:          h.NewAdminHandler(catalogService, ordersService, repo, cfg.RequestTimeout),
		Auth:           authClient,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
