package follows

import (
	"github.com/anonto42/skillshare/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the follow engine. A nil *Metrics is valid and records nothing.
type Metrics struct {
	toggles         *prometheus.CounterVec
	persistFailures prometheus.Counter
	loadFallbacks   *prometheus.CounterVec
	records         *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "follows",
			Name:      "toggles_total",
			Help:      "Follow toggles by operation and outcome.",
		}, []string{"operation", "outcome"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "follows",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed.",
		}),
		loadFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "follows",
			Name:      "load_fallbacks_total",
			Help:      "Loads that fell back to the default follow set.",
		}, []string{"reason"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "follows",
			Name:      "records",
			Help:      "Records in the current follow set by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.toggles, m.persistFailures, m.loadFallbacks, m.records)
	return m
}

func (m *Metrics) observeToggle(operation string, outcome Outcome) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(operation, outcome.String()).Inc()
}

func (m *Metrics) observePersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) observeLoadFallback(reason string) {
	if m == nil {
		return
	}
	m.loadFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeSet(set FollowSet) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(string(models.FollowKindCreator)).Set(float64(set.Count(models.FollowKindCreator)))
	m.records.WithLabelValues(string(models.FollowKindCourse)).Set(float64(set.Count(models.FollowKindCourse)))
}
