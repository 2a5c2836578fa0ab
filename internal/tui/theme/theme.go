// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // base background
	BgHighlight string `toml:"bg_highlight"` // alternating hour bands
	BgSelection string `toml:"bg_selection"` // active gesture ghost
	Fg          string `toml:"fg"`           // primary foreground
	FgMuted     string `toml:"fg_muted"`     // time axis, done tasks
	Accent      string `toml:"accent"`       // headers, borders
	Task        string `toml:"task"`         // task blocks
	Event       string `toml:"event"`        // external calendar blocks
	Now         string `toml:"now"`          // current-time marker
	Warning     string `toml:"warning"`      // errors, destructive hints
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files. Falls back to frappe
// when the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "frappe"
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != "frappe" {
			return Load("frappe")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	return &t, nil
}

// Available returns the list of available theme names.
func Available() []string {
	return []string{"frappe", "mocha", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
