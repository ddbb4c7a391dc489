package driven

import "github.com/custodia-labs/fieldtriage/internal/core/domain"

// SettingsStore persists the application settings.
type SettingsStore interface {
	// Load reads the settings. Keys missing from storage keep their defaults.
	Load() (domain.Settings, error)

	// Save validates and persists the settings.
	Save(settings domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}
