package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/structree/internal/advise"
	"github.com/dgallion1/structree/internal/anthropic"
	"github.com/dgallion1/structree/internal/api"
	"github.com/dgallion1/structree/internal/config"
	"github.com/dgallion1/structree/internal/pipeline"
	"github.com/dgallion1/structree/internal/summarize"
	"github.com/dgallion1/structree/internal/treestore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional capabilities: adviser and summarizer need an API key, the
	// tree store needs a URL. Missing ones degrade, never block startup.
	var claude *anthropic.Client
	var adviser advise.Adviser
	var summarizer summarize.Summarizer
	if cfg.AnthropicAPIKey != "" {
		claude = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AdviserTimeout)
		adviser = advise.NewClaudeAdviser(claude)
		summarizer = summarize.NewClaudeSummarizer(claude)
	} else {
		log.Warn("no ANTHROPIC_API_KEY; running rule-only with truncation summaries")
		summarizer = &summarize.Truncating{}
	}

	var store *treestore.Client
	if cfg.TreestoreURL != "" {
		store = treestore.NewClient(cfg.TreestoreURL, cfg.TreestoreAPIKey)
	}

	orch := pipeline.NewOrchestrator(cfg, adviser, summarizer, store, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if claude != nil {
			claude.Close()
		}
		if store != nil {
			store.Close()
		}
	}()

	log.Info("starting structree", "port", cfg.Port, "max_depth", cfg.MaxDepth)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
