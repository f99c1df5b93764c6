package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/access"
	"github.com/scoremvp/scoremvp/internal/api/rest"
	"github.com/scoremvp/scoremvp/internal/api/websocket"
	"github.com/scoremvp/scoremvp/internal/cache"
	"github.com/scoremvp/scoremvp/internal/config"
	"github.com/scoremvp/scoremvp/internal/importer"
	"github.com/scoremvp/scoremvp/internal/publisher"
	"github.com/scoremvp/scoremvp/internal/service"
	"github.com/scoremvp/scoremvp/internal/store"
	"github.com/scoremvp/scoremvp/internal/store/repository"
)

const (
	serviceName    = "scoremvp"
	serviceVersion = "1.0.0"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg)

	log.Infof("Starting %s v%s - Basketball Stats Service", serviceName, serviceVersion)

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Info("✓ Connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		log.Info("✓ Database migrations applied")
	}

	redisCache := connectRedis(cfg)
	if redisCache != nil {
		defer redisCache.Close()
	}

	statsRepo := repository.NewStatsRepository(db)
	gameRepo := repository.NewGameRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	var (
		events      service.EventPublisher
		idempotency service.IdempotencyStore
	)
	checks := map[string]rest.HealthChecker{"postgres": db}
	if redisCache != nil {
		events = publisher.NewRedisStreamPublisher(redisCache.Client())
		idempotency = redisCache
		checks["redis"] = redisCache
	}

	handler := rest.NewHandler(rest.Services{
		Stats:     service.NewStatsService(statsRepo, events, idempotency),
		Games:     service.NewGameService(gameRepo),
		Players:   service.NewPlayerService(playerRepo),
		Dashboard: service.NewDashboardService(statsRepo, gameRepo),
		Importer:  importer.New(playerRepo, gameRepo, statsRepo),
		Checks:    checks,
	})

	hub := websocket.NewHub()
	go hub.Run(ctx)
	if redisCache != nil {
		go websocket.NewRelay(redisCache.Client(), hub).Run(ctx)
	} else {
		log.Warn("REDIS_URL not set: live updates and idempotency keys are disabled")
	}

	restServer := rest.NewServer(cfg.RESTPort, handler, rest.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		Auth:        access.NewAuthenticator(cfg.JWTSecret),
		LiveUpdates: websocket.NewHandler(hub, cfg.CORSOrigins),
	})
	go func() {
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("REST server error: %v", err)
		}
	}()

	log.Infof("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Infof("  REST API: http://0.0.0.0:%s", cfg.RESTPort)
	log.Infof("  WebSocket: ws://0.0.0.0:%s/ws/games/{gameId}", cfg.RESTPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("REST API server shutdown error: %v", err)
	}
	cancel()

	log.Infof("%s stopped", serviceName)
}

// connectRedis retries until Redis answers. It returns nil when REDIS_URL is empty.
func connectRedis(cfg config.Config) *cache.RedisCache {
	if cfg.RedisURL == "" {
		return nil
	}

	log.Info("Connecting to Redis...")
	for i := 0; i < cfg.RedisRetries; i++ {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err == nil {
			log.Info("✓ Connected to Redis")
			return redisCache
		}

		if i < cfg.RedisRetries-1 {
			log.Warnf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, cfg.RedisRetries, err, cfg.RetryDelay)
			time.Sleep(cfg.RetryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", cfg.RedisRetries, err)
		}
	}
	return nil
}
