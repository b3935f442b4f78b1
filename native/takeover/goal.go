package takeover

import (
	"fmt"
	"math/big"
)

// Goal captures the funding targets derived for a campaign at launch. The
// goal math is deliberately centralised here: every caller that needs these
// numbers goes through ComputeGoal so the formulas cannot drift between call
// sites.
type Goal struct {
	// ParticipationAmount is the participation-based method: the fraction of
	// the original supply the creator wants contributed.
	ParticipationAmount *big.Int
	// CapacityAmount is the capacity-based method: the largest contribution
	// total the cushioned reward reserve can pay out at the configured rate.
	CapacityAmount *big.Int
	// MinGoal is the smaller of the two methods, so the goal itself can never
	// imply a reserve overflow.
	MinGoal *big.Int
	// MaxSafeContribution is the hard admission ceiling, always the
	// capacity amount regardless of which method set the goal.
	MaxSafeContribution *big.Int
}

// ComputeGoal derives a campaign's minimum funding goal and safe contribution
// ceiling from the supply, participation target, reward rate and cushioned
// reserve. All divisions floor, which biases both outputs smaller and
// therefore conservative.
func ComputeGoal(originalSupply *big.Int, targetParticipationBps, rewardRateBps uint32, rewardReserve *big.Int, safetyMarginBps uint32) (*Goal, error) {
	if originalSupply == nil || originalSupply.Sign() <= 0 {
		return nil, fmt.Errorf("%w: original supply must be positive", ErrInvalidParameters)
	}
	if rewardReserve == nil || rewardReserve.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reward reserve must be positive", ErrInvalidParameters)
	}
	if targetParticipationBps < 1 || targetParticipationBps > BpsDenominator {
		return nil, fmt.Errorf("%w: target participation %d bps outside [1, %d]", ErrInvalidParameters, targetParticipationBps, BpsDenominator)
	}
	if rewardRateBps < MinRewardRateBps || rewardRateBps > MaxRewardRateBps {
		return nil, fmt.Errorf("%w: reward rate %d bps outside [%d, %d]", ErrInvalidParameters, rewardRateBps, MinRewardRateBps, MaxRewardRateBps)
	}
	if safetyMarginBps >= BpsDenominator {
		return nil, fmt.Errorf("%w: safety margin %d bps leaves no payable reserve", ErrInvalidParameters, safetyMarginBps)
	}

	participation := applyBps(originalSupply, targetParticipationBps)
	effectiveReserve := retainBps(rewardReserve, safetyMarginBps)
	capacity := unapplyRate(effectiveReserve, rewardRateBps)

	goal := &Goal{
		ParticipationAmount: participation,
		CapacityAmount:      capacity,
		MinGoal:             minBig(participation, capacity),
		MaxSafeContribution: new(big.Int).Set(capacity),
	}
	if goal.MinGoal.Sign() <= 0 {
		return nil, fmt.Errorf("%w: derived goal is zero; supply or reserve too small for the configured rates", ErrInvalidParameters)
	}
	return goal, nil
}
