package driven

// ConfigStore holds settings under dotted keys such as
// "matcher.weights.code". Typed getters return the zero value when a key
// is missing or holds another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int

	// GetFloat widens integer values.
	GetFloat(key string) float64

	GetBool(key string) bool

	// Set stores a value. File-backed stores persist it before returning.
	Set(key string, value any) error

	// Load re-reads the backing storage, replacing the cached values.
	Load() error

	// Path identifies the backing storage for error messages.
	Path() string
}
