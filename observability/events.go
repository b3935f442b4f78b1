package observability

import (
	"log/slog"
	"strconv"

	"takeover/core/events"
	"takeover/core/types"
	"takeover/native/takeover"
)

// EventRecorder mirrors engine events into structured logs and Prometheus
// metrics. It satisfies events.Emitter so a host wires it straight into the
// engine.
type EventRecorder struct {
	logger  *slog.Logger
	metrics *TakeoverMetrics
}

// NewEventRecorder builds a recorder around the supplied logger. A nil logger
// uses the process default.
func NewEventRecorder(logger *slog.Logger) *EventRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRecorder{logger: logger, metrics: Takeover()}
}

type payloadCarrier interface {
	Event() *types.Event
}

// Emit implements events.Emitter.
func (r *EventRecorder) Emit(evt events.Event) {
	if r == nil || evt == nil {
		return
	}
	attrs := map[string]string{}
	if carrier, ok := evt.(payloadCarrier); ok {
		if payload := carrier.Event(); payload != nil {
			attrs = payload.Attributes
		}
	}

	logArgs := make([]any, 0, len(attrs)*2)
	for key, value := range attrs {
		logArgs = append(logArgs, slog.String(key, value))
	}

	switch evt.EventType() {
	case takeover.EventTypeContributionAdmitted:
		outcome := "admitted"
		if attrs["scaled"] == "true" {
			outcome = "scaled"
		}
		r.metrics.RecordAdmission(outcome)
		if util, err := strconv.ParseUint(attrs["utilizationBps"], 10, 32); err == nil {
			r.metrics.SetUtilization(attrs["campaignId"], uint32(util))
		}
		r.logger.Info("contribution admitted", logArgs...)
	case takeover.EventTypeContributionRejected:
		r.metrics.RecordAdmission("rejected")
		r.logger.Info("contribution rejected", logArgs...)
	case takeover.EventTypeCampaignFinalized:
		r.metrics.RecordFinalization(attrs["outcome"])
		r.logger.Info("campaign finalized", logArgs...)
	case takeover.EventTypeClaimSettled:
		r.metrics.RecordClaim(attrs["kind"])
		r.logger.Info("claim settled", logArgs...)
	case takeover.EventTypeSettlementScaled:
		r.metrics.RecordScaledSettlement()
		r.logger.Warn("settlement scaled below nominal share", logArgs...)
	default:
		r.logger.Info(evt.EventType(), logArgs...)
	}
}
