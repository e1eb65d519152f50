package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/api"
	"github.com/portfolio-assistant/backend/internal/api/handlers"
	"github.com/portfolio-assistant/backend/internal/cache/redis"
	"github.com/portfolio-assistant/backend/internal/chat"
	"github.com/portfolio-assistant/backend/internal/knowledge"
	"github.com/portfolio-assistant/backend/internal/llm"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/internal/middleware/ratelimit"
	"github.com/portfolio-assistant/backend/pkg/config"
	appLogger "github.com/portfolio-assistant/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting portfolio assistant API server")
	metrics.Init()

	kb, err := knowledge.LoadKnowledgeBase(cfg.Knowledge.FAQPath)
	if err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}

	tax, err := knowledge.LoadTaxonomy(cfg.Knowledge.TaxonomyPath)
	if err != nil {
		appLogger.Fatal("Failed to load taxonomy", zap.Error(err))
	}

	engine, err := knowledge.NewEngine(kb, tax)
	if err != nil {
		appLogger.Fatal("Failed to build FAQ engine", zap.Error(err))
	}
	metrics.KnowledgeRecords.Set(float64(engine.Records()))

	health := handlers.NewHealthHandler(engine.Records())

	var opts []chat.Option
	if cfg.LLM.Enabled {
		llmClient := llm.NewClient(llm.Config{
			APIKey:          cfg.LLM.APIKey,
			BaseURL:         cfg.LLM.BaseURL,
			Model:           cfg.LLM.Model,
			Temperature:     cfg.LLM.Temperature,
			MaxTokens:       cfg.LLM.MaxTokens,
			Timeout:         cfg.LLM.Timeout(),
			RetryAttempts:   cfg.LLM.RetryAttempts,
			RetryDelay:      500 * time.Millisecond,
			BreakerFailures: uint32(cfg.LLM.BreakerFailures),
			BreakerTimeout:  time.Duration(cfg.LLM.BreakerTimeout) * time.Second,
		})
		opts = append(opts, chat.WithGenerator(llmClient, kb))
	} else {
		appLogger.Info("LLM disabled, answering from the knowledge base only")
	}

	if cfg.Cache.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cacheClient, err := redis.NewClient(ctx, cfg.Cache.Host, cfg.Cache.Port, cfg.Cache.Password, cfg.Cache.DB)
		cancel()
		if err != nil {
			appLogger.Warn("Answer cache unavailable, continuing without it", zap.Error(err))
		} else {
			defer cacheClient.Close()
			opts = append(opts, chat.WithCache(cacheClient, cfg.Cache.TTL()))
			health.AddCheck("cache", cacheClient.Ping)
		}
	}

	service := chat.NewService(engine, opts...)

	limiter := ratelimit.NewWindowStore(ratelimit.Config{
		MaxRequests:    cfg.RateLimit.MaxRequests,
		WindowDuration: cfg.RateLimit.Window(),
		MaxClients:     cfg.RateLimit.MaxClients,
	})

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go limiter.RunSweeper(sweepCtx, cfg.RateLimit.Window())

	app := api.NewApp(api.Options{
		ReadTimeout:      time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:     time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:        cfg.Server.BodyLimit,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		MaxMessageLength: cfg.Validation.MaxMessageLength,
		Development:      cfg.Logging.Level == "debug",
		AccessLog:        true,
	}, api.Deps{
		Replier: service,
		Limiter: limiter,
		Health:  health,
		Logger:  appLogger.GetLogger(),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting",
		zap.String("address", addr),
		zap.Int("faqs", engine.Records()),
		zap.Bool("generative", service.Generative()),
	)

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
