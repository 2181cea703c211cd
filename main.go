package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-multierror"

	"rag-chat/internal/analytics"
	"rag-chat/internal/backend"
	"rag-chat/internal/config"
	"rag-chat/internal/directory"
	"rag-chat/internal/logging"
	"rag-chat/internal/route"
	"rag-chat/internal/session"
	"rag-chat/internal/settings"
	"rag-chat/internal/storage"
	"rag-chat/internal/ui"
)

var (
	configPath = flag.String("config", "", "Path to config file (default ~/.rag-chat/config.yaml)")
	startPath  = flag.String("open", "/", "Route to open on start, e.g. /chat/{id} or /documents")
)

func main() {
	flag.Parse()

	path := *configPath
	if path == "" {
		configDir, err := config.GetConfigDir()
		if err != nil {
			log.Fatalf("Failed to locate config directory: %v", err)
		}
		path = filepath.Join(configDir, config.DefaultConfigFile)
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.InitLogger(logging.Options{
		FilePath:   cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	if err := ui.ApplyTheme(cfg.UI.Theme); err != nil {
		logging.Warn("Falling back to default theme: %v", err)
	}

	store, err := storage.NewBadgerStore(cfg.Storage.DBPath)
	if err != nil {
		logging.Close()
		log.Fatalf("Failed to open database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	logging.Info("Using backend %s", client.BaseURL())

	sessions := directory.NewSessions(client)
	deps := ui.AppDeps{
		Engine:    session.NewEngine(client, sessions),
		Sessions:  sessions,
		Documents: directory.NewDocuments(client),
		Settings:  settings.NewStore(store),
		Analytics: analytics.StaticSource{},
	}

	app := ui.NewAppModel(ctx, deps, route.Parse(*startPath), 80, 24)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	if err := shutdown(store); err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
	}
	if runErr != nil {
		log.Fatalf("Error running program: %v", runErr)
	}
}

func shutdown(store storage.KV) error {
	var result *multierror.Error
	if err := store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close database: %w", err))
	}
	if err := logging.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close log: %w", err))
	}
	return result.ErrorOrNil()
}
