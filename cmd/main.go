package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "expenso/docs"
	"expenso/internal/cache"
	"expenso/internal/config"
	"expenso/internal/handlers"
	"expenso/internal/logger"
	"expenso/internal/repository"
	"expenso/internal/repository/db"
	"expenso/internal/server"
	"expenso/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title           Expenso API
// @version         1.0
// @description     Personal expense tracker: JWT auth, per-user categories, expenses and statistics.
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg, err := config.Load(os.Getenv("EXPENSO_CONFIG_DIR"))
	if err != nil {
		// the logger level comes from config, so fall back to defaults here
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	gin.SetMode(cfg.GinMode)

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(sqlDB, log)

	statsCache := openCache(cfg.Redis, log)
	if statsCache != nil {
		defer func() { _ = statsCache.Close() }()
	}

	deps := service.Deps{
		Tokens: service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		Log:    log,
	}
	if statsCache != nil {
		deps.Cache = statsCache
	}

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, deps)
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		WSInterval:     cfg.WS.Interval,
	})

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

// openCache connects to redis when redis.addr is set. Failure is not fatal:
// stats are then always computed from the database.
func openCache(cfg config.RedisConfig, log *logger.Logger) *cache.Redis {
	if cfg.Addr == "" {
		log.Infow("stats cache disabled", "reason", "redis.addr not set")
		return nil
	}
	c, err := cache.New(cfg.Addr, cfg.TTL, log)
	if err != nil {
		log.Warnw("stats cache unavailable; continuing without it", "addr", cfg.Addr, "err", err)
		return nil
	}
	log.Infow("stats cache enabled", "addr", cfg.Addr, "ttl", cfg.TTL)
	return c
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight requests.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
