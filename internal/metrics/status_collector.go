package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"winwin/internal/i18n"
)

const connectionCheckTimeout = 3 * time.Second

var (
	backendConnectedDesc   = prometheus.NewDesc("winwin_backend_connected", "Backend connection status (1=connected,0=disconnected)", nil, nil)
	lastCheckDesc          = prometheus.NewDesc("winwin_backend_last_check_timestamp_seconds", "Timestamp of the last backend connection check", nil, nil)
	cacheEntriesDesc       = prometheus.NewDesc("winwin_cache_entries", "Number of entries currently held in the backend response cache", nil, nil)
	catalogKeysDesc        = prometheus.NewDesc("winwin_catalog_keys", "Number of keys in the default translation dictionary", nil, nil)
	catalogMissingKeysDesc = prometheus.NewDesc("winwin_catalog_missing_keys", "Default dictionary keys a language does not translate", []string{"language"}, nil)
)

// ConnectionChecker is the part of the backend client the collector probes.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

type statusCollector struct {
	backend   ConnectionChecker
	catalog   *i18n.Catalog
	cacheSize func() int
	now       func() time.Time
}

// NewStatusCollector returns a collector exposing backend reachability,
// cache occupancy and translation catalog completeness at scrape time.
func NewStatusCollector(backend ConnectionChecker, catalog *i18n.Catalog, cacheSize func() int) prometheus.Collector {
	return &statusCollector{
		backend:   backend,
		catalog:   catalog,
		cacheSize: cacheSize,
		now:       time.Now,
	}
}

func (collector *statusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- backendConnectedDesc
	ch <- lastCheckDesc
	ch <- cacheEntriesDesc
	ch <- catalogKeysDesc
	ch <- catalogMissingKeysDesc
}

func (collector *statusCollector) Collect(ch chan<- prometheus.Metric) {
	connected := 0.0
	if collector.backend != nil {
		ctx, cancel := context.WithTimeout(context.Background(), connectionCheckTimeout)
		if err := collector.backend.CheckConnection(ctx); err == nil {
			connected = 1.0
		}
		cancel()
	}
	ch <- prometheus.MustNewConstMetric(backendConnectedDesc, prometheus.GaugeValue, connected)
	ch <- prometheus.MustNewConstMetric(lastCheckDesc, prometheus.GaugeValue, float64(collector.now().Unix()))

	if collector.cacheSize != nil {
		ch <- prometheus.MustNewConstMetric(cacheEntriesDesc, prometheus.GaugeValue, float64(collector.cacheSize()))
	}

	if collector.catalog == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(catalogKeysDesc, prometheus.GaugeValue, float64(len(collector.catalog.Keys())))
	for _, code := range i18n.Codes() {
		missing := collector.catalog.MissingKeys(code)
		ch <- prometheus.MustNewConstMetric(catalogMissingKeysDesc, prometheus.GaugeValue, float64(len(missing)), string(code))
	}
}
