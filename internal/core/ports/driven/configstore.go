package driven

// ConfigStore persists configuration values under dot-notation keys
// such as "render.badge_style".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if unset.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if unset.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false if unset.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error

	// Delete removes a configuration value.
	Delete(key string) error

	// Save persists the configuration.
	Save() error

	// Load reads the configuration from storage.
	Load() error

	// Path returns the location of the configuration.
	Path() string
}
