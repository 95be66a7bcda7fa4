package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the request-path counters and histograms.
type Recorder struct {
	localeRedirects      *prometheus.CounterVec
	translationFallbacks *prometheus.CounterVec
	backendDuration      *prometheus.HistogramVec
	analyticsFailures    *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them on registerer.
func NewRecorder(registerer prometheus.Registerer) *Recorder {
	recorder := &Recorder{
		localeRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "winwin_locale_redirects_total",
			Help: "Redirects issued by the locale resolver grouped by target language and preference source",
		}, []string{"language", "source"}),
		translationFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "winwin_translation_fallbacks_total",
			Help: "Translation lookups answered by a fallback tier instead of the active dictionary",
		}, []string{"language", "tier"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "winwin_backend_request_duration_seconds",
			Help:    "Duration of calls to the content backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		analyticsFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "winwin_analytics_failures_total",
			Help: "Visit and download log calls that failed and were swallowed",
		}, []string{"kind"}),
	}
	registerer.MustRegister(
		recorder.localeRedirects,
		recorder.translationFallbacks,
		recorder.backendDuration,
		recorder.analyticsFailures,
	)
	return recorder
}

// ObserveLocaleRedirect counts one resolver redirect.
func (r *Recorder) ObserveLocaleRedirect(language, source string) {
	r.localeRedirects.WithLabelValues(language, source).Inc()
}

// ObserveTranslationFallback counts one lookup that missed the active dictionary.
func (r *Recorder) ObserveTranslationFallback(language, tier string) {
	r.translationFallbacks.WithLabelValues(language, tier).Inc()
}

// ObserveBackendRequest records a backend call. A zero status means the
// request never produced a response.
func (r *Recorder) ObserveBackendRequest(operation string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.backendDuration.WithLabelValues(operation, label).Observe(duration.Seconds())
}

// ObserveAnalyticsFailure counts a swallowed analytics error of kind visit or download.
func (r *Recorder) ObserveAnalyticsFailure(kind string) {
	r.analyticsFailures.WithLabelValues(kind).Inc()
}
