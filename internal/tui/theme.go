package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the comparison TUI.
// Use DarkTheme() or LightTheme() to get a pre-built theme,
// or construct a custom Theme.
type Theme struct {
	Name       string         // glamour style name: "dark" or "light"
	Primary    lipgloss.Color // warm accent: title, focused slider
	Secondary  lipgloss.Color // cool accent: variant B, key hints
	Accent     lipgloss.Color // variant A, focused borders
	Error      lipgloss.Color // alert line
	Warning    lipgloss.Color // spinner
	Success    lipgloss.Color // banner, selected card
	Text       lipgloss.Color // primary text
	TextMuted  lipgloss.Color // labels, hints
	Background lipgloss.Color // tile background
	Border     lipgloss.Color // card and tile borders
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("#fab283"),
		Secondary:  lipgloss.Color("#5c9cf5"),
		Accent:     lipgloss.Color("#9d7cd8"),
		Error:      lipgloss.Color("#e06c75"),
		Warning:    lipgloss.Color("#f5a742"),
		Success:    lipgloss.Color("#7fd88f"),
		Text:       lipgloss.Color("#eeeeee"),
		TextMuted:  lipgloss.Color("#808080"),
		Background: lipgloss.Color("#141414"),
		Border:     lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Primary:    lipgloss.Color("#b35c00"),
		Secondary:  lipgloss.Color("#0550ae"),
		Accent:     lipgloss.Color("#6639ba"),
		Error:      lipgloss.Color("#cf222e"),
		Warning:    lipgloss.Color("#bf8700"),
		Success:    lipgloss.Color("#116329"),
		Text:       lipgloss.Color("#1f2328"),
		TextMuted:  lipgloss.Color("#656d76"),
		Background: lipgloss.Color("#f6f8fa"),
		Border:     lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds all lipgloss styles derived from a Theme.
// Constructed once from a Theme and stored in tuiModel.
type styles struct {
	title  lipgloss.Style
	text   lipgloss.Style
	dim    lipgloss.Style
	err    lipgloss.Style
	banner lipgloss.Style
	status lipgloss.Style
	busy   lipgloss.Style

	// Statistics tiles
	tile      lipgloss.Style
	tileValue lipgloss.Style
	tileLabel lipgloss.Style

	// Parameter panels
	panel        lipgloss.Style
	panelFocused lipgloss.Style
	sliderFill   lipgloss.Style
	sliderEmpty  lipgloss.Style
	cursor       lipgloss.Style

	// Response cards
	card         lipgloss.Style
	cardSelected lipgloss.Style
	cardRejected lipgloss.Style
	variantA     lipgloss.Style
	variantB     lipgloss.Style

	// Prompt box
	prompt        lipgloss.Style
	promptFocused lipgloss.Style
}

// newStyles builds all styles from a theme.
func newStyles(t Theme) styles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		text:   lipgloss.NewStyle().Foreground(t.Text),
		dim:    lipgloss.NewStyle().Foreground(t.TextMuted),
		err:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		banner: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		status: lipgloss.NewStyle().Foreground(t.TextMuted),
		busy:   lipgloss.NewStyle().Foreground(t.Warning),

		tile:      box.Background(t.Background).Align(lipgloss.Center),
		tileValue: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Background(t.Background),
		tileLabel: lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background),

		panel:        box,
		panelFocused: box.BorderForeground(t.Accent),
		sliderFill:   lipgloss.NewStyle().Foreground(t.Primary),
		sliderEmpty:  lipgloss.NewStyle().Foreground(t.Border),
		cursor:       lipgloss.NewStyle().Bold(true).Foreground(t.Primary),

		card:         box,
		cardSelected: box.BorderForeground(t.Success),
		cardRejected: box.BorderForeground(t.Border).Faint(true),
		variantA:     lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		variantB:     lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),

		prompt:        box,
		promptFocused: box.BorderForeground(t.Accent),
	}
}
