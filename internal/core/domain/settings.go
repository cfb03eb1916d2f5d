package domain

import "time"

const unknownDescription = "Unknown"

// BadgeStyle controls how comment-count badges are drawn.
type BadgeStyle string

// Available badge styles.
const (
	// BadgeStyleSuperscript draws the count as superscript digits.
	BadgeStyleSuperscript BadgeStyle = "superscript"

	// BadgeStyleBracket draws the count as [n].
	BadgeStyleBracket BadgeStyle = "bracket"

	// BadgeStyleNone hides badges entirely.
	BadgeStyleNone BadgeStyle = "none"
)

// IsValid returns true if the badge style is recognised.
func (b BadgeStyle) IsValid() bool {
	switch b {
	case BadgeStyleSuperscript, BadgeStyleBracket, BadgeStyleNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b BadgeStyle) String() string {
	return string(b)
}

// Description returns a human-readable description of the style.
func (b BadgeStyle) Description() string {
	switch b {
	case BadgeStyleSuperscript:
		return "Superscript (wolf¹)"
	case BadgeStyleBracket:
		return "Bracket (wolf[1])"
	case BadgeStyleNone:
		return "None (highlight only)"
	default:
		return unknownDescription
	}
}

// ColorMode controls ANSI colour output.
type ColorMode string

// Available colour modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the colour mode is recognised.
func (c ColorMode) IsValid() bool {
	return c == ColorAuto || c == ColorAlways || c == ColorNever
}

// StorageSettings configures where chapters are persisted.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.grimorium/data.
	DataDir string
}

// AutosaveSettings configures the debounced snapshot writer.
type AutosaveSettings struct {
	Enabled  bool
	Debounce time.Duration
}

// RenderSettings configures terminal rendering.
type RenderSettings struct {
	BadgeStyle BadgeStyle
	Color      ColorMode
	Width      int
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Storage  StorageSettings
	Autosave AutosaveSettings
	Render   RenderSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Autosave: AutosaveSettings{
			Enabled:  true,
			Debounce: 2 * time.Second,
		},
		Render: RenderSettings{
			BadgeStyle: BadgeStyleSuperscript,
			Color:      ColorAuto,
			Width:      80,
		},
	}
}

// Validate checks the settings for unusable values.
func (s *AppSettings) Validate() error {
	if !s.Render.BadgeStyle.IsValid() {
		return ErrInvalidInput
	}
	if !s.Render.Color.IsValid() {
		return ErrInvalidInput
	}
	if s.Autosave.Debounce < 0 || s.Render.Width < 0 {
		return ErrInvalidInput
	}
	return nil
}
