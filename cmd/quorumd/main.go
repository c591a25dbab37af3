// Command quorumd serves the quorum API: one question fanned out to many
// models in parallel, with per-call cost tracking, live progress over SSE or
// WebSocket, and a synthesized answer at the end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/leandrotocalini/quorum/internal/alert"
	"github.com/leandrotocalini/quorum/internal/config"
	"github.com/leandrotocalini/quorum/internal/council"
	"github.com/leandrotocalini/quorum/internal/history"
	"github.com/leandrotocalini/quorum/internal/lifecycle"
	"github.com/leandrotocalini/quorum/internal/provider/openrouter"
	"github.com/leandrotocalini/quorum/internal/server"
)

func main() {
	configPath := flag.String("config", "quorum.json", "path to config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	registry := cfg.Registry()

	providerFor := func(apiKey string) council.LLMProvider {
		return openrouter.NewClient(apiKey, openrouter.WithLogger(logger))
	}

	opts := []council.Option{
		council.WithServerKey(cfg.APIKey),
		council.WithDefaultSynthesizer(cfg.DefaultSynthesizer),
		council.WithLogger(logger),
	}
	if cfg.SlackWebhookURL != "" {
		opts = append(opts, council.WithAlerter(alert.New(cfg.SlackWebhookURL, alert.WithLogger(logger))))
	}
	coordinator := council.New(registry, providerFor, opts...)

	srvOpts := []server.Option{server.WithLogger(logger)}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	srvOpts = append(srvOpts, server.WithHistory(store))

	srv := server.New(coordinator, registry, srvOpts...)

	httpSrv := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Handler(),
	}

	mgr := lifecycle.NewManager(lifecycle.DefaultShutdownConfig(), logger)
	mgr.OnShutdown("http server", func(ctx context.Context) error {
		return httpSrv.Shutdown(ctx)
	})
	mgr.OnShutdown("history store", func(ctx context.Context) error {
		return store.Close()
	})

	os.Exit(mgr.Run(func(ctx context.Context) error {
		httpSrv.BaseContext = func(net.Listener) context.Context { return ctx }
		logger.Info("quorumd listening",
			"addr", cfg.Listen,
			"models", len(registry.List()),
			"synthesizer", cfg.DefaultSynthesizer,
		)
		err := httpSrv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}))
}

// newLogger builds a text handler on a terminal, JSON otherwise.
func newLogger() *slog.Logger {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	return slog.New(handler)
}
