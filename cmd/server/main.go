package main

import (
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mitravel/flightsearch/internal/cache"
	"github.com/mitravel/flightsearch/internal/handler"
	"github.com/mitravel/flightsearch/internal/inventory"
	"github.com/mitravel/flightsearch/internal/location"
	"github.com/mitravel/flightsearch/internal/parser"
	"github.com/mitravel/flightsearch/internal/pricing"
	"github.com/mitravel/flightsearch/internal/providers"
	"github.com/mitravel/flightsearch/internal/ratelimit"
	"github.com/mitravel/flightsearch/internal/search"
)

type Config struct {
	Port string

	DuffelToken   string
	DuffelBaseURL string
	DuffelVersion string

	SeedFlightsPath  string
	AirportIndexPath string
	AdminConfigPath  string

	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration
}

func main() {
	cfg := loadConfig()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	store, err := inventory.LoadStore(cfg.SeedFlightsPath)
	if err != nil {
		log.Fatalf("Failed to load seed inventory: %v", err)
	}
	log.Printf("Loaded %d seed flights", len(store.Flights()))

	index, err := location.LoadAirportIndex(cfg.AirportIndexPath)
	if err != nil {
		log.Fatalf("Failed to load airport index: %v", err)
	}

	fees, err := pricing.LoadFeeTable(cfg.AdminConfigPath)
	if err != nil {
		log.Fatalf("Failed to load fee table: %v", err)
	}

	rateLimiter := ratelimit.NewProviderLimiterWithDefaults()
	rateLimiter.SetEndpointLimit("offers", 5, 10)
	rateLimiter.SetEndpointLimit("places", 10, 20)

	duffel := providers.NewDuffelClient(providers.DuffelConfig{
		BaseURL: cfg.DuffelBaseURL,
		Version: cfg.DuffelVersion,
		Token:   cfg.DuffelToken,
	}, rateLimiter)
	if cfg.DuffelToken == "" {
		log.Println("DUFFEL_ACCESS_TOKEN not set, live searches will fall back to seed data")
	}

	var offerCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Printf("Redis unavailable (%v), continuing without cache", err)
			offerCache = cache.NewNoOpCache()
		} else {
			offerCache = redisCache
			log.Printf("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
		}
	} else {
		offerCache = cache.NewNoOpCache()
		log.Println("Cache disabled")
	}

	engine := inventory.NewEngine(store)
	service := search.New(duffel, engine, fees, offerCache)
	resolver := location.NewResolver(index, duffel)
	searchHandler := handler.NewSearchHandler(service, parser.New(), resolver)

	api := e.Group("/api/v1")
	api.POST("/flights/search", searchHandler.Search)
	api.POST("/flights/ai-search", searchHandler.AISearch)
	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting flight search server on port %s", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		DuffelToken:      getEnv("DUFFEL_ACCESS_TOKEN", ""),
		DuffelBaseURL:    getEnv("DUFFEL_BASE_URL", "https://api.duffel.com"),
		DuffelVersion:    getEnv("DUFFEL_VERSION", "v2"),
		SeedFlightsPath:  getEnv("SEED_FLIGHTS_PATH", "data/seed_flights.json"),
		AirportIndexPath: getEnv("AIRPORTS_INDEX_PATH", "data/airports.json"),
		AdminConfigPath:  getEnv("ADMIN_CONFIG_PATH", "data/adminConfig.json"),
		CacheEnabled:     getEnvBool("CACHE_ENABLED", false),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisTTL:         getEnvDuration("REDIS_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
