package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-election-backend/auth"
	"campus-election-backend/cache"
	"campus-election-backend/config"
	"campus-election-backend/database"
	"campus-election-backend/handlers"
	"campus-election-backend/repository"
	"campus-election-backend/routes"
	"campus-election-backend/service"
	"campus-election-backend/summary"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Server holds the long-lived connections that must be closed on shutdown.
type Server struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// initServer wires repositories, services and controllers into a router.
func initServer(cfg *config.Config, srv *Server) *gin.Engine {
	var (
		locks   *cache.LockService
		results *cache.ResultsCache
	)
	if srv.Redis != nil {
		locks = cache.NewLockService(srv.Redis)
		results = cache.NewResultsCache(srv.Redis, cfg.Redis.CacheTTL)
	}

	electionRepo := repository.NewElectionRepository(srv.DB)
	userRepo := repository.NewUserRepository(srv.DB)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	var completer summary.Completer
	if cfg.AI.APIKey != "" {
		completer = summary.NewOpenAICompleter(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	} else {
		slog.Warn("GROQ_API_KEY not set, AI analysis will be unavailable")
	}

	return routes.SetupRouter(routes.Dependencies{
		DB:             srv.DB,
		Auth:           service.NewAuthService(userRepo, tokens, results),
		Votes:          service.NewVoteService(electionRepo, locks, results),
		Results:        service.NewResultsService(electionRepo, results),
		Admin:          service.NewAdminService(electionRepo, results),
		Generator:      summary.NewGenerator(completer, cfg.AI.Model, cfg.AI.Timeout),
		RateLimiter:    handlers.NewRateLimiter(cfg.RateLimit),
		AllowedOrigins: cfg.AllowedOrigins,
	})
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}
	db, err := database.Open(cfg.Database, level)
	if err != nil {
		slog.Error("failed to initialize database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "driver", cfg.Database.Driver)

	if cfg.IsDevelopment() {
		if err := database.Seed(db); err != nil {
			slog.Warn("seeding sample ballot failed", "error", err)
		}
	}

	srv := &Server{DB: db}

	// Redis is optional; without it results are computed on every request
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	cancel()
	switch {
	case err == nil:
		srv.Redis = client
		slog.Info("redis connected", "addr", cfg.Redis.Addr)
	case cfg.Redis.Addr == "":
		slog.Info("redis disabled, results cache and vote locks are off")
	default:
		slog.Warn("redis unavailable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
	}

	router := initServer(cfg, srv)
	httpServer := routes.StartServer(router, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	database.Close(srv.DB)
	if srv.Redis != nil {
		if err := srv.Redis.Close(); err != nil {
			slog.Warn("closing redis failed", "error", err)
		}
	}

	slog.Info("server exited")
}
