package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"petcare-ai/internal/api"
	"petcare-ai/internal/api/handlers"
	"petcare-ai/internal/repository"
	"petcare-ai/internal/service"
	"petcare-ai/pkg/config"
	"petcare-ai/pkg/logger"

	"go.uber.org/zap"
)

// @title Pet Care AI API
// @version 1.0
// @description Pet-health question answering with risk triage over a keyword-indexed knowledge base

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting petcare-ai service")

	locale, err := service.LookupLocale(cfg.Locale)
	if err != nil {
		appLogger.Fatal("Invalid locale", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Knowledge
	knowledgeRepo := repository.NewKnowledgeRepository(cfg.Knowledge.Path, cfg.Knowledge.BackupDir, logger.Named("repository"))
	store := service.NewKnowledgeStore(knowledgeRepo, logger.Named("knowledge"))
	if _, err := store.Load(ctx); err != nil {
		// Chat still works without knowledge: requests go to the model or refusal path.
		appLogger.Warn("Starting without knowledge base", zap.Error(err))
	}

	// Model
	modelClient, err := service.NewModelClient(ctx, cfg, logger.Named("model"))
	if err != nil {
		appLogger.Fatal("Failed to initialize model client", zap.Error(err))
	}
	if modelClient != nil {
		defer modelClient.Close()
	}
	params := service.ParamsFromConfig(&cfg.Model)

	// Services
	chatService := service.NewChatService(store, service.ChatServiceOptions{
		Model:        modelClient,
		Params:       params,
		ModelTimeout: cfg.Model.Timeout,
		MaxResults:   cfg.Knowledge.MaxResults,
		Locale:       locale,
	}, logger.Named("chat"))

	var publisher service.KnowledgePublisher
	if cfg.GitHub.Enabled() {
		publisher = repository.NewGitHubPublisher(&cfg.GitHub, logger.Named("github"))
		appLogger.Info("GitHub publishing enabled", zap.String("repo", cfg.GitHub.Repo))
	}
	knowledgeService := service.NewKnowledgeService(store, publisher, logger.Named("knowledge"))
	extractor := service.NewExtractorService(modelClient, params, locale, logger.Named("extractor")).
		WithTimeout(cfg.Model.ExtractTimeout)

	if cfg.Knowledge.Watch {
		watcher, err := service.NewKnowledgeWatcher(cfg.Knowledge.Path, store, logger.Named("watcher"))
		if err != nil {
			appLogger.Warn("Failed to create knowledge watcher", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			appLogger.Warn("Failed to start knowledge watcher", zap.Error(err))
			watcher.Stop()
		} else {
			defer watcher.Stop()
		}
	}

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService, extractor, appLogger)
	systemHandler := handlers.NewSystemHandler(store, chatService)

	app := api.SetupRouter(&cfg.Server, chatHandler, knowledgeHandler, systemHandler, appLogger)

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		serverErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("Server failed", zap.Error(err))
		}
	}

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
