package tui

import "github.com/Veraticus/scadenziario/internal/tui/themes"

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Width  int
	Height int
	// ShowHelp starts with the full key reference expanded.
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  80,
		Height: 24,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
		if height > 0 {
			c.Height = height
		}
	}
}

// WithHelp expands the key reference on start.
func WithHelp(show bool) Option {
	return func(c *Config) { c.ShowHelp = show }
}
