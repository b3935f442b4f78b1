package takeover

import (
	"fmt"
	"math/big"
)

// ClaimResult is a contributor's terminal claim against a finalized campaign.
// Resolving a claim does not flip the contribution's claimed flag; the host
// must do that atomically with paying out so payment happens at most once.
type ClaimResult struct {
	Kind   ClaimKind
	Amount *big.Int
	// Scaled marks the defensive uniform scale-down path. It should be
	// unreachable when admission enforced the ceiling; any occurrence is a
	// bug signal elsewhere and must stay observable.
	Scaled bool
}

// Resolve computes the terminal claim for one contribution: a full refund
// when the campaign failed, the nominal reward share when it succeeded and
// the reserve covers the total owed, and a uniformly scaled-down share in the
// should-never-happen case where it does not.
func Resolve(c *Campaign, ct *Contribution) (*ClaimResult, error) {
	if c == nil || ct == nil {
		return nil, fmt.Errorf("%w: nil campaign or contribution", ErrInvalidParameters)
	}
	if !c.Finalized {
		return nil, ErrNotFinalized
	}
	if ct.Claimed {
		return nil, ErrAlreadyClaimed
	}
	amount := newBigInt(ct.Amount)
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative contribution amount", ErrInvalidParameters)
	}

	if !c.Successful {
		return &ClaimResult{Kind: ClaimRefund, Amount: amount}, nil
	}

	totalOwed := applyBps(c.TotalContributed, c.RewardRateBps)
	effectiveReserve := retainBps(c.RewardReserve, c.SafetyMarginBps)
	nominal := applyBps(amount, c.RewardRateBps)
	if totalOwed.Cmp(effectiveReserve) <= 0 {
		return &ClaimResult{Kind: ClaimReward, Amount: nominal}, nil
	}

	// Admission-time and settlement-time reserve accounting disagree. Scale
	// every share down uniformly so the reserve still covers the sum.
	scaled := new(big.Int).Mul(nominal, effectiveReserve)
	if totalOwed.Sign() > 0 {
		scaled.Div(scaled, totalOwed)
	}
	return &ClaimResult{Kind: ClaimReward, Amount: scaled, Scaled: true}, nil
}
