// Package ui implements the hermes command line interface.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"hermes/internal/config"
	"hermes/internal/store"
	"hermes/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state. The store is opened lazily so
// commands that never touch it (version, config) work without a
// database.
type App struct {
	store  store.Store
	config *config.Config
	root   *cobra.Command
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "hermes",
		Short: "A personal calendar and task scheduler",
		Long: `Hermes is a day-planner for the terminal.

The default command opens a week grid where tasks can be dragged
between times and days, resized at their edges, and created by holding
on empty space. External ICS calendars render alongside your tasks,
and a sync daemon mirrors the database to a versioned JSON file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			return tui.Run(s, a.config)
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.syncCmd())

	return a
}

func (a *App) openStore() (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := store.NewSQLite(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.store = s
	return s, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("hermes %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if one was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
