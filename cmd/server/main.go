package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	docs "main/docs"
	appportfolio "main/internal/application/service/portfolio"
	apptrading "main/internal/application/service/trading"
	appwatchlist "main/internal/application/service/watchlist"
	"main/internal/config"
	"main/internal/domain/interfaces"
	"main/internal/infrastructure/broker"
	"main/internal/infrastructure/memstore"
	infraportfolio "main/internal/infrastructure/portfolio"
	"main/internal/infrastructure/quotes"
	infrahttp "main/internal/interfaces/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()

	var repo interfaces.PortfolioRepository
	if cfg.Postgres.DSN != "" {
		pgRepo, err := infraportfolio.NewRepository(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatalf("failed to init portfolio repo: %v", err)
		}
		repo = pgRepo
	} else {
		logger.Warn("running with in-memory storage, data is not persisted")
		repo = memstore.New()
	}
	defer repo.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var publisher apptrading.TradePublisher
	if cfg.RabbitMQ.URL != "" {
		brokerPublisher, err := broker.NewPublisher(cfg.RabbitMQ, logger)
		if err != nil {
			logger.Fatalf("failed to init trade publisher: %v", err)
		}
		defer brokerPublisher.Close()
		publisher = brokerPublisher
	}

	tradingService := apptrading.NewService(repo, publisher, logger)
	portfolioService := appportfolio.NewService(repo)
	watchlistService := appwatchlist.NewService(repo)
	quoteClient := quotes.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.APIKey)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	handler := infrahttp.NewHandler(tradingService, portfolioService, watchlistService, quoteClient, redisClient, cacheTTL)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
