package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hermes/internal/config"
	"hermes/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.Grid.HourHeight = promptInt(reader, "Hour height (rows per hour x snap step)", cfg.Grid.HourHeight)
	cfg.Grid.SnapStepMinutes = promptInt(reader, "Snap step minutes", cfg.Grid.SnapStepMinutes)
	cfg.Grid.LongPressMs = promptInt(reader, "Long press delay (ms)", cfg.Grid.LongPressMs)
	cfg.Grid.DefaultMinutes = promptInt(reader, "Default task length (minutes)", cfg.Grid.DefaultMinutes)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Sync.FilePath = promptValue(reader, "Sync mirror file", cfg.Sync.FilePath)
	cfg.Sync.RepoDir = promptValue(reader, "Sync git repository (empty to disable)", cfg.Sync.RepoDir)
	cfg.Sync.Collections = promptSlice(reader, "Sync collections (comma-separated)", cfg.Sync.Collections)
	cfg.Calendar.ICSSources = promptSlice(reader, "ICS sources (comma-separated)", cfg.Calendar.ICSSources)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[grid]")
	fmt.Printf("  hour_height       = %d\n", cfg.Grid.HourHeight)
	fmt.Printf("  snap_step_minutes = %d\n", cfg.Grid.SnapStepMinutes)
	fmt.Printf("  long_press_ms     = %d\n", cfg.Grid.LongPressMs)
	fmt.Printf("  default_minutes   = %d\n", cfg.Grid.DefaultMinutes)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path           = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[sync]")
	fmt.Printf("  file_path         = %s\n", cfg.Sync.FilePath)
	fmt.Printf("  repo_dir          = %s\n", cfg.Sync.RepoDir)
	fmt.Printf("  collections       = %s\n", strings.Join(cfg.Sync.Collections, ", "))
	fmt.Println("\n[calendar]")
	fmt.Printf("  ics_sources       = %s\n", strings.Join(cfg.Calendar.ICSSources, ", "))
	fmt.Println("\n[ui]")
	fmt.Printf("  theme             = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Printf("  Not a number: %q\n", value)
	}
}

func promptSlice(reader *bufio.Reader, label string, current []string) []string {
	currentStr := strings.Join(current, ", ")
	fmt.Printf("  %s [%s]: ", label, currentStr)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
