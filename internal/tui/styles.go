package tui

import (
	"github.com/charmbracelet/lipgloss"

	"hermes/internal/tui/theme"
)

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	TimeAxis       lipgloss.Style
	TimeAxisHour   lipgloss.Style
	DayHeader      lipgloss.Style
	DayHeaderToday lipgloss.Style
	GridEmpty      lipgloss.Style
	GridEmptyAlt   lipgloss.Style
	TaskBlock      lipgloss.Style
	TaskBlockDone  lipgloss.Style
	EventBlock     lipgloss.Style
	Ghost          lipgloss.Style
	NowMarker      lipgloss.Style
	AllDayBanner   lipgloss.Style
	SidebarTitle   lipgloss.Style
	SidebarItem    lipgloss.Style
	SidebarDrop    lipgloss.Style
	Status         lipgloss.Style
	StatusError    lipgloss.Style
	Help           lipgloss.Style
	CreatePrompt   lipgloss.Style
}

// NewStyles derives the style set from a theme.
func NewStyles(t *theme.Theme) *Styles {
	bg := theme.Color(t.Bg)
	bgHi := theme.Color(t.BgHighlight)
	fg := theme.Color(t.Fg)
	muted := theme.Color(t.FgMuted)
	accent := theme.Color(t.Accent)

	return &Styles{
		TimeAxis:       lipgloss.NewStyle().Foreground(muted).Background(bg),
		TimeAxisHour:   lipgloss.NewStyle().Foreground(fg).Background(bg),
		DayHeader:      lipgloss.NewStyle().Foreground(accent).Background(bg).Bold(true),
		DayHeaderToday: lipgloss.NewStyle().Foreground(bg).Background(accent).Bold(true),
		GridEmpty:      lipgloss.NewStyle().Background(bg),
		GridEmptyAlt:   lipgloss.NewStyle().Background(bgHi),
		TaskBlock: lipgloss.NewStyle().
			Foreground(bg).
			Background(theme.Color(t.Task)),
		TaskBlockDone: lipgloss.NewStyle().
			Foreground(bg).
			Background(muted).
			Strikethrough(true),
		EventBlock: lipgloss.NewStyle().
			Foreground(bg).
			Background(theme.Color(t.Event)),
		Ghost: lipgloss.NewStyle().
			Foreground(fg).
			Background(theme.Color(t.BgSelection)),
		NowMarker:    lipgloss.NewStyle().Foreground(theme.Color(t.Now)).Background(bg).Bold(true),
		AllDayBanner: lipgloss.NewStyle().Foreground(bg).Background(theme.Color(t.Event)),
		SidebarTitle: lipgloss.NewStyle().Foreground(accent).Background(bg).Bold(true),
		SidebarItem:  lipgloss.NewStyle().Foreground(fg).Background(bg),
		SidebarDrop:  lipgloss.NewStyle().Foreground(bg).Background(theme.Color(t.Warning)),
		Status:       lipgloss.NewStyle().Foreground(fg).Background(bg),
		StatusError:  lipgloss.NewStyle().Foreground(theme.Color(t.Warning)).Background(bg),
		Help:         lipgloss.NewStyle().Foreground(muted).Background(bg),
		CreatePrompt: lipgloss.NewStyle().Foreground(fg).Background(bgHi),
	}
}
