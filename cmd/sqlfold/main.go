package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebelice/sqlfold/internal/app"
	"github.com/rebelice/sqlfold/internal/config"
	"github.com/rebelice/sqlfold/internal/history"
	"github.com/rebelice/sqlfold/internal/snippets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	configDir, err := config.GetConfigPath()
	if err != nil {
		fmt.Printf("Error resolving config directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		fmt.Printf("Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.NewStore(filepath.Join(configDir, "history.db"))
		if err != nil {
			log.Printf("Warning: query history disabled: %v\n", err)
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	snips, err := snippets.NewManager(configDir)
	if err != nil {
		fmt.Printf("Error loading snippets: %v\n", err)
		os.Exit(1)
	}

	application := app.New(cfg, store, snips)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(application, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
