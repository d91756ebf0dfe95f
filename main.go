package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"todo-planner/internal/config"
	"todo-planner/internal/database"
	"todo-planner/internal/middleware"
	"todo-planner/internal/monitoring"
	"todo-planner/internal/planner"
	"todo-planner/internal/server"
	"todo-planner/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewDatabasePool(database.PoolConfigFromConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(pool.DB); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	breaker := planner.NewBreaker(&planner.BreakerConfig{
		MaxFailures:      cfg.AI.BreakerMaxFailures,
		Timeout:          cfg.AI.BreakerTimeout,
		HalfOpenMaxCalls: 1,
	})
	decomposer := planner.NewDecomposer(newGenerator(ctx, cfg), breaker)

	registry := monitoring.NewRegistry()
	registry.RegisterHealthCheck("database", pool.Health)
	registry.RegisterStats("database", pool.Stats)
	registry.RegisterStats("ai_breaker", breaker.Stats)

	deps := server.Dependencies{
		DB: pool.DB,
		Sessions: session.NewManager(session.Options{
			Secret:     cfg.Session.Secret,
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.IsProduction(),
		}),
		Planner:     decomposer,
		Registry:    registry,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMin:  cfg.RateLimit.RequestsPerMin,
			BurstSize:       cfg.RateLimit.BurstSize,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
		})
	}

	router, err := server.NewRouter(deps)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	if err := server.New(cfg, router).Run(ctx); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}
	log.Println("Server exited")
}

// newGenerator returns nil when no API key is configured, which makes every
// new list use the fallback plan.
func newGenerator(ctx context.Context, cfg *config.Config) planner.Generator {
	if cfg.AI.APIKey == "" {
		log.Println("GEMINI_API_KEY not set, new lists will use the fallback plan")
		return nil
	}

	generator, err := planner.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		log.Printf("Gemini client unavailable, new lists will use the fallback plan: %v", err)
		return nil
	}
	log.Printf("Planning lists with Gemini model %s", generator.Model())
	return generator
}
