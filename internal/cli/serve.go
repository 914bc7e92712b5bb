package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khatib49/Scan-ocr/internal/api"
	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
	"github.com/khatib49/Scan-ocr/internal/domain/validator"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/config"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/logging"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/storage"
	"github.com/khatib49/Scan-ocr/internal/vision"
)

// RunServe runs the receipt analysis API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Load the venue catalog. An empty or broken catalog aborts startup.
	catalog, err := matcher.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	catalogStore := matcher.NewStore(catalog)
	logger.Info("venue catalog loaded", "path", cfg.Catalog.Path, "profiles", len(catalog.Profiles))

	extractor := vision.NewOpenAIClient(cfg.OpenAI, logging.NewLoggerWithSystem(loggingCfg, "vision"))
	engine := validator.New(validationConfig(cfg))

	port := cfg.Server.Port
	if flags.Port > 0 {
		port = flags.Port
	}

	apiCfg := api.Config{
		Port:           port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKey:         cfg.Security.APIKey,
		Model:          cfg.OpenAI.Model,
		SystemPrompt:   cfg.ResolveSystemPrompt(vision.FallbackSystemPrompt),
		PromptSource:   promptSource(cfg),
		ProbeEnabled:   cfg.OpenAI.ProbeEnabled,
		CatalogPath:    cfg.Catalog.Path,
		StrategyName:   cfg.Catalog.Strategy,
	}

	server := api.NewServer(apiCfg, store, extractor, catalogStore, engine, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}

// validationConfig applies config overrides on top of the engine defaults.
func validationConfig(cfg *config.Config) validator.Config {
	vc := validator.DefaultConfig()
	if cfg.Validation.SumTolerance > 0 {
		vc.SumTolerance = cfg.Validation.SumTolerance
	}
	if cfg.Validation.VATRate > 0 {
		vc.VATRate = cfg.Validation.VATRate
	}
	return vc
}

// promptSource names where the active system prompt came from.
func promptSource(cfg *config.Config) string {
	if cfg.OpenAI.SystemPromptPath != "" {
		if _, err := os.Stat(cfg.OpenAI.SystemPromptPath); err == nil {
			return "file"
		}
	}
	if cfg.OpenAI.SystemPrompt != "" {
		return "config"
	}
	return "default"
}
