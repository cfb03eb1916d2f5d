package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/grimorium/internal/core/domain"
	"github.com/custodia-labs/grimorium/internal/core/ports/driven"
	"github.com/custodia-labs/grimorium/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir          = "storage.data_dir"
	keyAutosaveEnabled  = "autosave.enabled"
	keyAutosaveDebounce = "autosave.debounce_ms"
	keyBadgeStyle       = "render.badge_style"
	keyColor            = "render.color"
	keyWidth            = "render.width"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			DataDir: s.getString(keyDataDir, defaults.Storage.DataDir),
		},
		Autosave: domain.AutosaveSettings{
			Enabled:  s.getBool(keyAutosaveEnabled, defaults.Autosave.Enabled),
			Debounce: time.Duration(s.getInt(keyAutosaveDebounce, int(defaults.Autosave.Debounce/time.Millisecond))) * time.Millisecond,
		},
		Render: domain.RenderSettings{
			BadgeStyle: s.getBadgeStyle(defaults.Render.BadgeStyle),
			Color:      s.getColor(defaults.Render.Color),
			Width:      s.getInt(keyWidth, defaults.Render.Width),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	// Save storage settings
	if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save data_dir: %w", err)
	}

	// Save autosave settings
	if err := s.configStore.Set(keyAutosaveEnabled, settings.Autosave.Enabled); err != nil {
		return fmt.Errorf("save autosave enabled: %w", err)
	}
	if err := s.configStore.Set(keyAutosaveDebounce, settings.Autosave.Debounce.Milliseconds()); err != nil {
		return fmt.Errorf("save autosave debounce: %w", err)
	}

	// Save render settings
	if err := s.configStore.Set(keyBadgeStyle, settings.Render.BadgeStyle.String()); err != nil {
		return fmt.Errorf("save badge style: %w", err)
	}
	if err := s.configStore.Set(keyColor, string(settings.Render.Color)); err != nil {
		return fmt.Errorf("save color: %w", err)
	}
	if err := s.configStore.Set(keyWidth, settings.Render.Width); err != nil {
		return fmt.Errorf("save width: %w", err)
	}

	return s.configStore.Save()
}

// Set parses value for key and saves the result.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyDataDir:
		settings.Storage.DataDir = value
	case keyAutosaveEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean: %w", key, value, domain.ErrInvalidInput)
		}
		settings.Autosave.Enabled = b
	case keyAutosaveDebounce:
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("%s: %q is not a non-negative integer: %w", key, value, domain.ErrInvalidInput)
		}
		settings.Autosave.Debounce = time.Duration(ms) * time.Millisecond
	case keyBadgeStyle:
		settings.Render.BadgeStyle = domain.BadgeStyle(value)
	case keyColor:
		settings.Render.Color = domain.ColorMode(value)
	case keyWidth:
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer: %w", key, value, domain.ErrInvalidInput)
		}
		settings.Render.Width = w
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	return s.Save(settings)
}

// Reset removes a stored setting so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if !s.isKey(key) {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return s.configStore.Save()
}

func (s *SettingsService) isKey(key string) bool {
	for _, k := range s.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyDataDir,
		keyAutosaveEnabled,
		keyAutosaveDebounce,
		keyBadgeStyle,
		keyColor,
		keyWidth,
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns the default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBadgeStyle(defaultVal domain.BadgeStyle) domain.BadgeStyle {
	style := domain.BadgeStyle(s.configStore.GetString(keyBadgeStyle))
	if !style.IsValid() {
		return defaultVal
	}
	return style
}

func (s *SettingsService) getColor(defaultVal domain.ColorMode) domain.ColorMode {
	mode := domain.ColorMode(s.configStore.GetString(keyColor))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
