package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alienxp03/arbiter/internal/config"
	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/internal/debate"
	"github.com/alienxp03/arbiter/internal/prompt"
	"github.com/alienxp03/arbiter/web/handlers"
)

func main() {
	port := flag.Int("port", 0, "Server port (default: config value)")
	cfgPath := flag.String("config", "", "Config file path (default: ~/.arbiter/config.yaml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Initialize slog
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if *debug {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	// Load config
	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.LoadFrom(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize provider registry
	registry, err := cfg.CreateRegistry()
	if err != nil {
		slog.Error("Failed to initialize provider registry", "error", err)
		os.Exit(1)
	}

	// Wire up the engine
	gw := cfg.CreateGateway(registry)
	eng := debate.New(
		gw,
		cfg.Roster(),
		core.AgentID(cfg.Arbiter),
		prompt.NewBuilder(cfg.Defaults.ExcerptLimit),
		debate.Options{
			MaxOutputTokens:   cfg.Defaults.MaxOutputTokens,
			SingleLineAnswers: cfg.Defaults.SingleLineAnswers,
		},
		logger,
	)

	h := handlers.New(eng, registry, cfg.Roster(), core.AgentID(cfg.Arbiter))

	// Start server
	listenPort := *port
	if listenPort == 0 {
		listenPort = cfg.Server.Port
	}
	addr := fmt.Sprintf(":%d", listenPort)
	server := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	// Handle shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("Shutting down...")
		server.Close()
	}()

	slog.Info("Starting arbiter server", "url", fmt.Sprintf("http://localhost%s", addr), "agents", len(cfg.Agents))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
