package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyWeightCode          = "matcher.weights.code"
	KeyWeightPlaintext     = "matcher.weights.plaintext"
	KeyWeightQuotes        = "matcher.weights.quotes"
	KeyReportThreshold     = "matcher.report_threshold"
	KeyWorkers             = "matcher.workers"
	KeyMinPhraseLength     = "query.min_phrase_length"
	KeyMaxPhraseWords      = "query.max_phrase_words"
	KeySite                = "search.site"
	KeyCheckTimeout        = "check.timeout"
	KeyGoogleAPIKey        = "google.api_key"
	KeyGoogleCX            = "google.cx"
	KeyStackExchangeKey    = "stackexchange.key"
	KeyStackExchangeSite   = "stackexchange.site"
	KeyStackExchangeFilter = "stackexchange.filter"
)

type valueKind int

const (
	kindString valueKind = iota
	kindFloat
	kindInt
	kindDuration
)

var settingKinds = map[string]valueKind{
	KeyWeightCode:          kindFloat,
	KeyWeightPlaintext:     kindFloat,
	KeyWeightQuotes:        kindFloat,
	KeyReportThreshold:     kindFloat,
	KeyWorkers:             kindInt,
	KeyMinPhraseLength:     kindInt,
	KeyMaxPhraseWords:      kindInt,
	KeySite:                kindString,
	KeyCheckTimeout:        kindDuration,
	KeyGoogleAPIKey:        kindString,
	KeyGoogleCX:            kindString,
	KeyStackExchangeKey:    kindString,
	KeyStackExchangeSite:   kindString,
	KeyStackExchangeFilter: kindString,
}

var weightKeys = map[domain.Reason]string{
	domain.ReasonCode:      KeyWeightCode,
	domain.ReasonPlaintext: KeyWeightPlaintext,
	domain.ReasonQuotes:    KeyWeightQuotes,
}

// SettingsService manages engine configuration.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Matcher returns the current matcher settings with defaults filled in.
// The result is validated.
func (s *SettingsService) Matcher() (domain.MatcherSettings, error) {
	defaults := domain.DefaultMatcherSettings()

	settings := domain.MatcherSettings{
		Weights:         make(map[domain.Reason]float64, len(weightKeys)),
		ReportThreshold: s.getFloat(KeyReportThreshold, defaults.ReportThreshold),
		MinPhraseLength: s.getInt(KeyMinPhraseLength, defaults.MinPhraseLength),
		MaxPhraseWords:  s.getInt(KeyMaxPhraseWords, defaults.MaxPhraseWords),
		Workers:         s.getInt(KeyWorkers, defaults.Workers),
		Site:            s.getString(KeySite, defaults.Site),
		CheckTimeout:    s.getDuration(KeyCheckTimeout, defaults.CheckTimeout),
	}
	for r, key := range weightKeys {
		settings.Weights[r] = s.getFloat(key, defaults.Weight(r))
	}

	if err := settings.Validate(); err != nil {
		return domain.MatcherSettings{}, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Value returns the stored value of a key formatted as text.
func (s *SettingsService) Value(key string) (string, bool) {
	val, ok := s.configStore.Get(key)
	if !ok {
		return "", false
	}
	return fmt.Sprint(val), true
}

// Set parses and stores a value for a recognised key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		if key == KeyReportThreshold && f > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1]", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration like 30s", domain.ErrInvalidInput, key)
		}
		parsed = d.String()
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
