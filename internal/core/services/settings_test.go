package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/guttenberg/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

func TestSettingsService_Matcher_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Matcher()

	require.NoError(t, err)
	defaults := domain.DefaultMatcherSettings()
	assert.Equal(t, defaults.Weights, settings.Weights)
	assert.Equal(t, defaults.ReportThreshold, settings.ReportThreshold)
	assert.Equal(t, defaults.MinPhraseLength, settings.MinPhraseLength)
	assert.Equal(t, defaults.Site, settings.Site)
	assert.Equal(t, defaults.CheckTimeout, settings.CheckTimeout)
}

func TestSettingsService_Matcher_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyWeightCode, 2)
	_ = store.Set(KeyWeightQuotes, 0.0)
	_ = store.Set(KeyReportThreshold, 0.65)
	_ = store.Set(KeyWorkers, 3)
	_ = store.Set(KeySite, "superuser.com")
	_ = store.Set(KeyCheckTimeout, "15s")

	settings, err := NewSettingsService(store).Matcher()

	require.NoError(t, err)
	assert.InDelta(t, 2.0, settings.Weight(domain.ReasonCode), 1e-9)
	assert.Zero(t, settings.Weight(domain.ReasonQuotes))
	assert.InDelta(t, 0.8, settings.Weight(domain.ReasonPlaintext), 1e-9)
	assert.InDelta(t, 0.65, settings.ReportThreshold, 1e-9)
	assert.Equal(t, 3, settings.Workers)
	assert.Equal(t, "superuser.com", settings.Site)
	assert.Equal(t, 15*time.Second, settings.CheckTimeout)
}

func TestSettingsService_Matcher_InvalidStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyWeightCode, 0.0)
	_ = store.Set(KeyWeightPlaintext, 0.0)
	_ = store.Set(KeyWeightQuotes, 0.0)

	_, err := NewSettingsService(store).Matcher()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	store = memory.NewConfigStore()
	_ = store.Set(KeyCheckTimeout, "soon")
	settings, err := NewSettingsService(store).Matcher()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCheckTimeout, settings.CheckTimeout)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.Set(KeyReportThreshold, "0.75"))
	require.NoError(t, service.Set(KeyMinPhraseLength, " 30 "))
	require.NoError(t, service.Set(KeyCheckTimeout, "2m"))
	require.NoError(t, service.Set(KeyGoogleCX, "abc123"))

	assert.InDelta(t, 0.75, store.GetFloat(KeyReportThreshold), 1e-9)
	assert.Equal(t, 30, store.GetInt(KeyMinPhraseLength))
	assert.Equal(t, "2m0s", store.GetString(KeyCheckTimeout))
	assert.Equal(t, "abc123", store.GetString(KeyGoogleCX))

	val, ok := service.Value(KeyMinPhraseLength)
	assert.True(t, ok)
	assert.Equal(t, "30", val)

	_, ok = service.Value(KeyStackExchangeKey)
	assert.False(t, ok)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		key   string
		value string
	}{
		{"unknown.key", "1"},
		{KeyReportThreshold, "1.5"},
		{KeyWeightCode, "-1"},
		{KeyWeightCode, "heavy"},
		{KeyWorkers, "0"},
		{KeyMaxPhraseWords, "many"},
		{KeyCheckTimeout, "-5s"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.ErrorIs(t, service.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()

	assert.Len(t, keys, 14)
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyWeightCode)
	assert.Contains(t, keys, KeyStackExchangeFilter)
}
