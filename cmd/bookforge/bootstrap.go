package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bluecalif/bookforge/internal/bookstore"
	"github.com/bluecalif/bookforge/internal/cachestore"
	"github.com/bluecalif/bookforge/internal/config"
	"github.com/bluecalif/bookforge/internal/digitization"
	"github.com/bluecalif/bookforge/internal/home"
	"github.com/bluecalif/bookforge/internal/orchestrator"
	"github.com/bluecalif/bookforge/internal/providers"
	"github.com/bluecalif/bookforge/internal/splitparse"
	"github.com/bluecalif/bookforge/internal/svcctx"
)

// bootstrap resolves the home directory and static config, wires every
// service dependency, and returns a context carrying the resulting
// svcctx.Services plus the orchestrator built from them. Every command's
// RunE calls this exactly once.
func bootstrap(ctx context.Context) (context.Context, *orchestrator.Orchestrator, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: GetLogLevel()}))

	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if err := h.EnsureExists(); err != nil {
		return nil, nil, fmt.Errorf("failed to create home directory: %w", err)
	}

	resolvedCfgFile := cfgFile
	if resolvedCfgFile == "" && h.ConfigExists() {
		resolvedCfgFile = h.ConfigPath()
	}
	mgr, err := config.NewManager(resolvedCfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := mgr.Get()

	cacheRoot := cfg.Paths.CacheRoot
	if cacheRoot == "" {
		cacheRoot = h.CacheRoot()
	}
	cache, err := cachestore.New(cacheRoot, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	digitizationClient := digitization.New(digitization.Config{
		EndpointURL: cfg.Digitization.EndpointURL,
		APIKey:      cfg.Digitization.APIKey,
		Timeout:     time.Duration(cfg.Digitization.TimeoutSeconds) * time.Second,
	}, cache, logger)

	llmClient := providers.NewOpenAIClient(providers.OpenAIConfig{
		BaseURL:     cfg.LLM.EndpointURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		MaxAttempts: cfg.LLM.RetryMax,
	})

	books := bookstore.NewFileStore(h)
	parse := splitparse.New(digitizationClient)
	configStore := config.NewFileStore(h.OverridesPath())

	opts := orchestrator.Options{
		WorkerPoolSize:       cfg.Pipeline.WorkerPoolSize,
		CommitCadencePages:   cfg.Pipeline.CommitCadencePages,
		PageTruncationLength: cfg.Pipeline.PageTruncationLength,
		ChapterSkipMinPages:  cfg.Pipeline.ChapterSkipMinPages,
	}
	orch := orchestrator.New(books, cache, parse, llmClient, h, logger, opts)

	svc := &svcctx.Services{
		Logger:             logger,
		Home:               h,
		ConfigStore:        configStore,
		CacheStore:         cache,
		DigitizationClient: digitizationClient,
		LLMClient:          llmClient,
		BookStore:          books,
	}

	return svcctx.WithServices(ctx, svc), orch, nil
}
