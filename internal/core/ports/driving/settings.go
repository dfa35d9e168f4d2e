package driving

import "github.com/custodia-labs/guttenberg/internal/core/domain"

// SettingsService manages engine configuration.
type SettingsService interface {
	// Matcher returns the current matcher settings, defaults filled in.
	Matcher() (domain.MatcherSettings, error)

	// Value returns the stored value of a key as text.
	Value(key string) (string, bool)

	// Set parses and stores a single configuration value by key.
	Set(key, value string) error

	// Keys lists the recognised configuration keys.
	Keys() []string
}
