package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/skywayair/skyway-web/internal/booking"
	"github.com/skywayair/skyway-web/internal/handler"
	"github.com/skywayair/skyway-web/internal/ratelimit"
	"github.com/skywayair/skyway-web/internal/session"
	"github.com/skywayair/skyway-web/internal/skyway"
)

type Config struct {
	Port          string
	BackendURL    string
	HTTPTimeout   time.Duration
	SessionCookie string
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	SessionTTL    time.Duration
	AuthRPS       float64
	AuthBurst     int
}

func main() {
	cfg := loadConfig()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	var sessions session.Store
	if cfg.RedisEnabled {
		redisStore, err := session.NewRedisStore(session.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.SessionTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		sessions = redisStore
		log.Printf("Redis session store enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryStore()
		log.Println("Redis disabled, using in-memory session store")
	}

	client := skyway.NewClient(skyway.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.HTTPTimeout,
	}, session.ContextSource{})

	limiter := ratelimit.NewKeyLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.AuthRPS,
		BurstSize:         cfg.AuthBurst,
	})
	registry := booking.NewRegistry(client)

	authHandler := handler.NewAuthHandler(client, sessions, limiter, cfg.SessionCookie)
	searchHandler := handler.NewSearchHandler(client)
	bookingHandler := handler.NewBookingHandler(registry, client, client)
	tripsHandler := handler.NewTripsHandler(client)

	sw := e.Group("/sw", handler.SessionContext(sessions, cfg.SessionCookie))
	authHandler.Register(sw)

	protected := sw.Group("", handler.RedirectExpired("/sw/login"))
	searchHandler.Register(protected)
	bookingHandler.Register(protected)
	tripsHandler.Register(protected)

	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting skyway front-end on port %s (backend: %s)", cfg.Port, cfg.BackendURL)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	backend := skyway.DefaultConfig()
	redis := session.DefaultRedisConfig()
	limits := ratelimit.DefaultConfig()

	return Config{
		Port:          getEnv("PORT", "8080"),
		BackendURL:    getEnv("BACKEND_URL", backend.BaseURL),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", backend.Timeout),
		SessionCookie: getEnv("SESSION_COOKIE", "sw_session"),
		RedisEnabled:  getEnvBool("REDIS_ENABLED", true),
		RedisHost:     getEnv("REDIS_HOST", redis.Host),
		RedisPort:     getEnv("REDIS_PORT", redis.Port),
		SessionTTL:    getEnvDuration("SESSION_TTL", redis.TTL),
		AuthRPS:       getEnvFloat("AUTH_RPS", limits.RequestsPerSecond),
		AuthBurst:     getEnvInt("AUTH_BURST", limits.BurstSize),
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

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
