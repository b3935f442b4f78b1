package takeover

// Outcome is the terminal result a finalization decision expects. Active
// means the campaign is not ready to finalize.
type Outcome uint8

const (
	OutcomeActive Outcome = iota
	OutcomeSuccessful
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeActive:
		return "active"
	case OutcomeSuccessful:
		return "successful"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FinalizationDecision reports whether a campaign may finalize and the
// outcome the committed transition should record.
type FinalizationDecision struct {
	Ready   bool
	GoalMet bool
	Expired bool
	Outcome Outcome
	Reason  string
}

// Evaluate is a pure function of (totalContributed, minGoal, endTime, now):
// identical inputs always agree. A campaign becomes ready as soon as its goal
// is met, even before expiry; an expired campaign below goal finalizes as
// failed. Evaluating an already-finalized campaign fails with
// ErrAlreadyFinalized so duplicate transitions surface instead of no-opping.
// The committed successful flag is authoritative afterwards; the decision is
// never recomputed against it.
func Evaluate(c *Campaign, now int64) (*FinalizationDecision, error) {
	if c == nil {
		return nil, ErrInvalidParameters
	}
	if c.Finalized {
		return nil, ErrAlreadyFinalized
	}
	goalMet := c.TotalContributed != nil && c.MinGoal != nil && c.TotalContributed.Cmp(c.MinGoal) >= 0
	expired := now > c.EndTime

	decision := &FinalizationDecision{
		Ready:   goalMet || expired,
		GoalMet: goalMet,
		Expired: expired,
	}
	switch {
	case goalMet:
		decision.Outcome = OutcomeSuccessful
		decision.Reason = "goal met"
	case expired:
		decision.Outcome = OutcomeFailed
		decision.Reason = "expired below goal"
	default:
		decision.Outcome = OutcomeActive
		decision.Reason = "goal unmet and clock running"
	}
	return decision, nil
}
