package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/tazhibayda/profile-service/docs"
	"github.com/tazhibayda/profile-service/internal/config"
	"github.com/tazhibayda/profile-service/internal/github"
	api "github.com/tazhibayda/profile-service/internal/http"
	"github.com/tazhibayda/profile-service/internal/log"
	"github.com/tazhibayda/profile-service/internal/metrics"
	"github.com/tazhibayda/profile-service/internal/queue"
	"github.com/tazhibayda/profile-service/internal/repo"
)

// @title Profile API
// @version 0.1.0
// @description Accounts, developer profiles and github repo listings.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(os.Getenv("APP_ENV") == "prod")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureUserIndexes(ctx); err != nil {
		logger.Fatal("user indexes", zap.Error(err))
	}
	if err := store.EnsureProfileIndexes(ctx); err != nil {
		logger.Fatal("profile indexes", zap.Error(err))
	}

	rds := repo.NewRedis(cfg.RedisAddr)
	if err := rds.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		rds = nil
	} else {
		defer rds.Close()
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, "profile.events")
		if err != nil {
			logger.Warn("rabbit unavailable, events disabled", zap.Error(err))
		} else {
			pub = p
		}
	}
	defer pub.Close()

	gh := github.NewClient("", cfg.GithubClientID, cfg.GithubSecret)

	h := api.NewHandler(store, cfg.JWTSecret, cfg.TokenTTLHours, rds, cfg.RateLimitPerMin, pub, gh)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("profile-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
