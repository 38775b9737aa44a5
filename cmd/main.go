package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/tkarls/memberbase/config"
	"github.com/tkarls/memberbase/internal/container"
	sqliteinfra "github.com/tkarls/memberbase/internal/infrastructure/sqlite"
	"github.com/tkarls/memberbase/internal/interface/middleware"
	"github.com/tkarls/memberbase/internal/router"
	"github.com/tkarls/memberbase/pkg/helpers"
	"github.com/tkarls/memberbase/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	secret, fallback, err := cfg.SessionSecret()
	if err != nil {
		logger.Fatalf("session secret: %v", err)
	}
	if fallback {
		logger.Warn("JWT_SECRET not set, signing sessions with the built-in development secret")
	}

	store, err := sqliteinfra.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Fatalf("failed to open user store: %v", err)
	}
	defer func() { _ = store.Close() }()

	c := &container.Container{
		Config: cfg,
		Logger: logger,
		Store:  store,
		JWT:    helpers.NewJWTManager(secret),
		Hasher: helpers.NewHasher(cfg.BcryptCost),
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
