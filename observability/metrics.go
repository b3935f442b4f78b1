package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// TakeoverMetrics tracks the funding engine's decision outcomes. The scaled
// settlements counter exists because that path indicates a bug upstream; an
// alert on it is the whole point.
type TakeoverMetrics struct {
	admissions        *prometheus.CounterVec
	finalizations     *prometheus.CounterVec
	claims            *prometheus.CounterVec
	scaledSettlements prometheus.Counter
	utilization       *prometheus.GaugeVec
}

var (
	takeoverOnce     sync.Once
	takeoverRegistry *TakeoverMetrics
)

// Takeover returns the lazily-initialised metrics registry for the funding
// engine.
func Takeover() *TakeoverMetrics {
	takeoverOnce.Do(func() {
		takeoverRegistry = &TakeoverMetrics{
			admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "takeover",
				Subsystem: "engine",
				Name:      "admissions_total",
				Help:      "Count of contribution admission decisions by outcome.",
			}, []string{"outcome"}),
			finalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "takeover",
				Subsystem: "engine",
				Name:      "finalizations_total",
				Help:      "Count of committed campaign finalizations by outcome.",
			}, []string{"outcome"}),
			claims: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "takeover",
				Subsystem: "engine",
				Name:      "claims_total",
				Help:      "Count of settled terminal claims by kind.",
			}, []string{"kind"}),
			scaledSettlements: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "takeover",
				Subsystem: "engine",
				Name:      "scaled_settlements_total",
				Help:      "Count of claims paid below nominal share. Should stay at zero; any increment is a regression signal.",
			}),
			utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "takeover",
				Subsystem: "engine",
				Name:      "ceiling_utilization_bps",
				Help:      "Post-admission utilization of the safe contribution ceiling in basis points.",
			}, []string{"campaign"}),
		}
		prometheus.MustRegister(
			takeoverRegistry.admissions,
			takeoverRegistry.finalizations,
			takeoverRegistry.claims,
			takeoverRegistry.scaledSettlements,
			takeoverRegistry.utilization,
		)
	})
	return takeoverRegistry
}

// RecordAdmission increments the admission counter for the supplied outcome
// (admitted, scaled, rejected).
func (m *TakeoverMetrics) RecordAdmission(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.admissions.WithLabelValues(outcome).Inc()
}

// RecordFinalization increments the finalization counter for the outcome.
func (m *TakeoverMetrics) RecordFinalization(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.finalizations.WithLabelValues(outcome).Inc()
}

// RecordClaim increments the claim counter for the kind (reward, refund).
func (m *TakeoverMetrics) RecordClaim(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.claims.WithLabelValues(kind).Inc()
}

// RecordScaledSettlement increments the regression-signal counter.
func (m *TakeoverMetrics) RecordScaledSettlement() {
	if m == nil {
		return
	}
	m.scaledSettlements.Inc()
}

// SetUtilization records the campaign's post-admission ceiling utilization.
func (m *TakeoverMetrics) SetUtilization(campaignID string, utilBps uint32) {
	if m == nil {
		return
	}
	if campaignID == "" {
		campaignID = "unknown"
	}
	m.utilization.WithLabelValues(campaignID).Set(float64(utilBps))
}
