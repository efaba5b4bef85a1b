package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	c "github.com/jay6909/qkart-backend/internal/cache"
	"github.com/jay6909/qkart-backend/internal/catalog"
	"github.com/jay6909/qkart-backend/internal/events"
	h "github.com/jay6909/qkart-backend/internal/http"
	"github.com/jay6909/qkart-backend/internal/repository"
	s "github.com/jay6909/qkart-backend/internal/service"
	"github.com/jay6909/qkart-backend/internal/token"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	JWTSecret       string
	JWTAccessExpiry time.Duration
	MongoReplicaSet bool
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	accessExpiry := 30 * time.Minute
	if v := os.Getenv("JWT_ACCESS_EXPIRATION_MINUTES"); v != "" {
		if d, err := time.ParseDuration(v + "m"); err == nil {
			accessExpiry = d
		}
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	cacheTTL := 15 * time.Minute
	if v := os.Getenv("CART_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		}
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8082"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "qkart"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    brokers,
		JWTSecret:       getEnv("JWT_SECRET", "thisisasamplesecret"),
		JWTAccessExpiry: accessExpiry,
		MongoReplicaSet: os.Getenv("MONGO_REPLICA_SET") == "true",
		CacheTTL:        cacheTTL,
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
	cfg := loadConfig()

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, repository.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDBName,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	userRepo := repository.NewMongoUserRepository(mongoDB)
	productRepo := repository.NewMongoProductRepository(mongoDB)

	// Checkout prefers a transactional boundary; sessions require a replica
	// set. Without one, checkout falls back to compensating writes.
	var txRunner repository.TxRunner
	if cfg.MongoReplicaSet {
		txRunner = repository.NewMongoTxRunner(mongoDB)
	} else {
		log.Println("MONGO_REPLICA_SET not set, checkout will compensate instead of using transactions")
		txRunner = repository.NewNoTxRunner()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing checkout events to %v", cfg.KafkaBrokers)
	} else {
		publisher = events.NoopPublisher{}
	}

	productCatalog := catalog.NewBreakerCatalog(catalog.NewStoreCatalog(productRepo))
	cartCache := c.NewRedisCache(redisClient, cfg.CacheTTL)

	cartService := s.NewCartService(cartRepo, userRepo, productCatalog, cartCache, txRunner, publisher)
	userService := s.NewUserService(userRepo)

	tokenService := token.NewService(token.Config{
		Secret:       cfg.JWTSecret,
		AccessExpiry: cfg.JWTAccessExpiry,
	})

	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	userHandler := h.NewUserHandler(userService, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.AuthMiddleware(tokenService, userService))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.GetMe)
			r.Put("/me/address", userHandler.SetAddress)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "qkart-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("QKart API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}
	log.Println("server exited")
}
