package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winwin/internal/i18n"
)

type stubChecker struct {
	err error
}

func (s stubChecker) CheckConnection(context.Context) error {
	return s.err
}

func testCatalog() *i18n.Catalog {
	return i18n.NewCatalog(map[i18n.Language]i18n.Dictionary{
		i18n.LanguageEnglish: {"home": "Home", "training": "Training"},
		i18n.LanguageFrench:  {"home": "Accueil"},
	})
}

func TestStatusCollector_Connected(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	registry := prometheus.NewRegistry()
	rawCollector := NewStatusCollector(stubChecker{}, testCatalog(), func() int { return 3 })
	collector, ok := rawCollector.(*statusCollector)
	require.True(t, ok)
	collector.now = func() time.Time { return now }
	require.NoError(t, registry.Register(collector))

	assert.Equal(t, 8, testutil.CollectAndCount(collector))

	assertGauge(t, registry, "winwin_backend_connected", nil, 1.0)
	assertGauge(t, registry, "winwin_backend_last_check_timestamp_seconds", nil, float64(now.Unix()))
	assertGauge(t, registry, "winwin_cache_entries", nil, 3.0)
	assertGauge(t, registry, "winwin_catalog_keys", nil, 2.0)
	assertGauge(t, registry, "winwin_catalog_missing_keys", map[string]string{"language": "en"}, 0.0)
	assertGauge(t, registry, "winwin_catalog_missing_keys", map[string]string{"language": "fr"}, 1.0)
	assertGauge(t, registry, "winwin_catalog_missing_keys", map[string]string{"language": "ar"}, 2.0)
}

func TestStatusCollector_Disconnected(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(NewStatusCollector(stubChecker{err: assert.AnError}, nil, nil)))

	assertGauge(t, registry, "winwin_backend_connected", nil, 0.0)
	count, err := testutil.GatherAndCount(registry, "winwin_catalog_keys")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func assertGauge(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string, expected float64) {
	t.Helper()
	value, err := gatherGauge(registry, name, labels)
	require.NoError(t, err)
	assert.InDelta(t, expected, value, 0.0001)
}

func gatherGauge(registry *prometheus.Registry, name string, labels map[string]string) (float64, error) {
	families, err := registry.Gather()
	if err != nil {
		return 0, err
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetGauge().GetValue(), nil
			}
		}
	}
	return 0, assert.AnError
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	if len(labels) == 0 {
		return true
	}
	matched := 0
	for _, pair := range metric.GetLabel() {
		if value, ok := labels[pair.GetName()]; ok && value == pair.GetValue() {
			matched++
		}
	}
	return matched == len(labels)
}
