package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	intentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoemart_intents_total",
			Help: "Total classified user messages by intent",
		},
		[]string{"intent"},
	)

	storageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoemart_storage_errors_total",
			Help: "Total failed storage calls by operation",
		},
		[]string{"operation"},
	)

	offlineResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shoemart_offline_responses_total",
			Help: "Total replies produced while storage was unavailable",
		},
	)

	activeSessionsDesc = prometheus.NewDesc(
		"shoemart_active_sessions",
		"Number of chat sessions currently held in memory",
		nil,
		nil,
	)
)

// SessionCounter reports how many chat sessions are live
type SessionCounter interface {
	Count() int
}

// SessionCollector is a custom Prometheus collector that reads the session
// count on each scrape.
type SessionCollector struct {
	sessions SessionCounter
}

// Describe sends the metric descriptor to the channel.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- activeSessionsDesc
}

// Collect emits the current session count as a gauge.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		activeSessionsDesc,
		prometheus.GaugeValue,
		float64(c.sessions.Count()),
	)
}

var registerOnce sync.Once

// Init registers the chatbot metrics with the default registry.
// sessions may be nil when no session manager runs (CLI).
// Must be called once at startup.
func Init(sessions SessionCounter) {
	registerOnce.Do(func() {
		prometheus.MustRegister(intentsTotal, storageErrorsTotal, offlineResponsesTotal)
		if sessions != nil {
			prometheus.MustRegister(&SessionCollector{sessions: sessions})
		}
	})
}

// RecordIntent counts one classified message
func RecordIntent(intent string) {
	intentsTotal.WithLabelValues(intent).Inc()
}

// RecordStorageError counts one failed storage call
func RecordStorageError(operation string) {
	storageErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordOfflineResponse counts one reply given without storage
func RecordOfflineResponse() {
	offlineResponsesTotal.Inc()
}
