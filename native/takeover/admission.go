package takeover

import (
	"fmt"
	"math/big"
)

// AdmissionResult is the decision returned for a proposed contribution. The
// function computing it never mutates the campaign; the host must persist the
// admitted amount and the new running total as one serialized unit against
// the same snapshot the decision was computed from.
type AdmissionResult struct {
	// AdmittedAmount is the amount actually counted, never exceeding the
	// proposed amount or the campaign's remaining headroom.
	AdmittedAmount *big.Int
	// Scaled is set when the proposal was partially admitted down to the
	// remaining headroom.
	Scaled bool
	// Rejected is set when the campaign has no headroom left; the admitted
	// amount is zero.
	Rejected bool
	// RiskLevel classifies post-admission ceiling utilization for hosts and
	// dashboards. Advisory only.
	RiskLevel RiskLevel
	// UtilizationBps is the post-admission utilization of the safe ceiling in
	// basis points.
	UtilizationBps uint32
}

// Admit decides how much of a proposed contribution a campaign can accept
// without the promised payout overflowing the reward reserve. The invariant
// it enforces: totalContributed + admittedAmount <= maxSafeContribution.
//
// Admission policy: the window is [startTime, endTime) strictly. A campaign
// that met its goal early keeps admitting inside the window, up to the safe
// ceiling; once endTime passes nothing is admitted, goal met or not.
func Admit(c *Campaign, proposed *big.Int, now int64) (*AdmissionResult, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil campaign", ErrInvalidParameters)
	}
	if c.Finalized {
		return nil, fmt.Errorf("%w: campaign %s is finalized", ErrCampaignClosed, c.ID)
	}
	if now < c.StartTime || now >= c.EndTime {
		return nil, fmt.Errorf("%w: campaign %s admission window is [%d, %d)", ErrCampaignClosed, c.ID, c.StartTime, c.EndTime)
	}
	if proposed == nil || proposed.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	total := newBigInt(c.TotalContributed)
	headroom := new(big.Int).Sub(newBigInt(c.MaxSafeContribution), total)
	if headroom.Sign() <= 0 {
		return &AdmissionResult{
			AdmittedAmount: big.NewInt(0),
			Rejected:       true,
			RiskLevel:      RiskHigh,
			UtilizationBps: BpsDenominator,
		}, nil
	}

	admitted := minBig(proposed, headroom)
	post := new(big.Int).Add(total, admitted)
	util := utilizationBps(post, c.MaxSafeContribution)
	return &AdmissionResult{
		AdmittedAmount: admitted,
		Scaled:         admitted.Cmp(proposed) < 0,
		RiskLevel:      classifyUtilization(util),
		UtilizationBps: util,
	}, nil
}

func classifyUtilization(utilBps uint32) RiskLevel {
	switch {
	case utilBps < riskMediumThresholdBps:
		return RiskLow
	case utilBps < riskHighThresholdBps:
		return RiskMedium
	default:
		return RiskHigh
	}
}
