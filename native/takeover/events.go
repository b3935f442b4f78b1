package takeover

import (
	"encoding/hex"
	"fmt"

	"takeover/core/events"
	"takeover/core/types"
)

const (
	// EventTypeCampaignLaunched is emitted when a creator launches a campaign.
	EventTypeCampaignLaunched = "takeover.campaign.launched"
	// EventTypeContributionAdmitted is emitted when a contribution is counted,
	// in full or scaled down to headroom.
	EventTypeContributionAdmitted = "takeover.contribution.admitted"
	// EventTypeContributionRejected is emitted when a proposal finds no
	// headroom left.
	EventTypeContributionRejected = "takeover.contribution.rejected"
	// EventTypeCampaignFinalized is emitted on the one-way success/failure
	// transition.
	EventTypeCampaignFinalized = "takeover.campaign.finalized"
	// EventTypeClaimSettled is emitted when a contributor's terminal claim is
	// resolved.
	EventTypeClaimSettled = "takeover.claim.settled"
	// EventTypeSettlementScaled flags the defensive scale-down path. It should
	// never fire in a correctly admitted campaign.
	EventTypeSettlementScaled = "takeover.settlement.scaled"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

// CampaignLaunchedEvent announces a newly launched campaign and its derived
// funding targets.
func CampaignLaunchedEvent(c *Campaign) *types.Event {
	return &types.Event{
		Type: EventTypeCampaignLaunched,
		Attributes: map[string]string{
			"campaignId":          c.ID,
			"creator":             hexAddr(c.Creator),
			"minGoal":             c.MinGoal.String(),
			"maxSafeContribution": c.MaxSafeContribution.String(),
			"startTime":           fmt.Sprintf("%d", c.StartTime),
			"endTime":             fmt.Sprintf("%d", c.EndTime),
		},
	}
}

// ContributionAdmittedEvent records an admitted contribution and its risk
// classification.
func ContributionAdmittedEvent(campaignID string, contributor string, proposed, admitted string, res *AdmissionResult) *types.Event {
	return &types.Event{
		Type: EventTypeContributionAdmitted,
		Attributes: map[string]string{
			"campaignId":     campaignID,
			"contributor":    contributor,
			"proposed":       proposed,
			"admitted":       admitted,
			"scaled":         fmt.Sprintf("%t", res.Scaled),
			"riskLevel":      res.RiskLevel.String(),
			"utilizationBps": fmt.Sprintf("%d", res.UtilizationBps),
		},
	}
}

// ContributionRejectedEvent records a proposal turned away for lack of
// headroom.
func ContributionRejectedEvent(campaignID string, contributor string, proposed string) *types.Event {
	return &types.Event{
		Type: EventTypeContributionRejected,
		Attributes: map[string]string{
			"campaignId":  campaignID,
			"contributor": contributor,
			"proposed":    proposed,
		},
	}
}

// CampaignFinalizedEvent records the committed outcome of a campaign.
func CampaignFinalizedEvent(c *Campaign, reason string) *types.Event {
	outcome := OutcomeFailed
	if c.Successful {
		outcome = OutcomeSuccessful
	}
	return &types.Event{
		Type: EventTypeCampaignFinalized,
		Attributes: map[string]string{
			"campaignId":       c.ID,
			"outcome":          outcome.String(),
			"reason":           reason,
			"totalContributed": c.TotalContributed.String(),
			"minGoal":          c.MinGoal.String(),
		},
	}
}

// ClaimSettledEvent records a resolved terminal claim.
func ClaimSettledEvent(campaignID string, contributor string, res *ClaimResult) *types.Event {
	return &types.Event{
		Type: EventTypeClaimSettled,
		Attributes: map[string]string{
			"campaignId":  campaignID,
			"contributor": contributor,
			"kind":        res.Kind.String(),
			"amount":      res.Amount.String(),
		},
	}
}

// SettlementScaledEvent flags a claim paid below its nominal share because
// settlement-time accounting found the reserve short. Observability for a
// condition that indicates a bug upstream.
func SettlementScaledEvent(campaignID string, contributor string, amount string) *types.Event {
	return &types.Event{
		Type: EventTypeSettlementScaled,
		Attributes: map[string]string{
			"campaignId":  campaignID,
			"contributor": contributor,
			"amount":      amount,
		},
	}
}

func hexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}
