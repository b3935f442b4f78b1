package takeover

import (
	"fmt"
	"math/big"
)

// RiskLevel classifies post-admission reserve utilization. It is advisory
// metadata for hosts and dashboards, never a gate.
type RiskLevel uint8

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// Utilization thresholds, in basis points, separating the risk bands.
const (
	riskMediumThresholdBps = 8_000
	riskHighThresholdBps   = 9_500
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ClaimKind distinguishes the two terminal claim shapes a contributor can
// hold once a campaign is finalized.
type ClaimKind uint8

const (
	ClaimReward ClaimKind = iota
	ClaimRefund
)

func (k ClaimKind) String() string {
	switch k {
	case ClaimReward:
		return "reward"
	case ClaimRefund:
		return "refund"
	default:
		return "unknown"
	}
}

// Campaign is a time-boxed funding round exchanging contributions of an
// original token for a pro-rata allocation of a new token. All amounts are
// integers in the token's smallest unit.
type Campaign struct {
	ID                     string   `json:"id"`
	Creator                [20]byte `json:"creator"`
	OriginalSupply         *big.Int `json:"originalSupply"`
	TargetParticipationBps uint32   `json:"targetParticipationBps"`
	RewardRateBps          uint32   `json:"rewardRateBps"`
	RewardReserve          *big.Int `json:"rewardReserve"`
	SafetyMarginBps        uint32   `json:"safetyMarginBps"`
	MinGoal                *big.Int `json:"minGoal"`
	MaxSafeContribution    *big.Int `json:"maxSafeContribution"`
	TotalContributed       *big.Int `json:"totalContributed"`
	StartTime              int64    `json:"startTime"`
	EndTime                int64    `json:"endTime"`
	Finalized              bool     `json:"finalized"`
	Successful             bool     `json:"successful"`
	CreatedAt              int64    `json:"createdAt"`
}

// Clone returns a deep copy so callers can mutate the copy without touching
// the stored instance.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	clone := *c
	clone.OriginalSupply = newBigInt(c.OriginalSupply)
	clone.RewardReserve = newBigInt(c.RewardReserve)
	clone.MinGoal = newBigInt(c.MinGoal)
	clone.MaxSafeContribution = newBigInt(c.MaxSafeContribution)
	clone.TotalContributed = newBigInt(c.TotalContributed)
	return &clone
}

// ProgressBps reports totalContributed/minGoal in basis points. Values above
// 10000 mean the goal is oversubscribed; presentation layers cap as needed.
func (c *Campaign) ProgressBps() uint64 {
	if c == nil || c.MinGoal == nil || c.MinGoal.Sign() <= 0 {
		return 0
	}
	if c.TotalContributed == nil || c.TotalContributed.Sign() <= 0 {
		return 0
	}
	out := new(big.Int).Mul(c.TotalContributed, bpsDenom)
	out.Div(out, c.MinGoal)
	if !out.IsUint64() {
		return ^uint64(0)
	}
	return out.Uint64()
}

// Contribution records the admitted (possibly scaled) amount a contributor
// holds against a campaign. One row per contributor per campaign; repeat
// contributions merge into the same row.
type Contribution struct {
	CampaignID    string   `json:"campaignId"`
	Contributor   [20]byte `json:"contributor"`
	Amount        *big.Int `json:"amount"`
	Claimed       bool     `json:"claimed"`
	ContributedAt int64    `json:"contributedAt"`
}

// Clone returns a deep copy of the contribution.
func (ct *Contribution) Clone() *Contribution {
	if ct == nil {
		return nil
	}
	clone := *ct
	clone.Amount = newBigInt(ct.Amount)
	return &clone
}

// CampaignParams carries the creator-supplied configuration for a new
// campaign. Derived fields (goal, ceiling) are computed at launch.
type CampaignParams struct {
	Creator                [20]byte
	OriginalSupply         *big.Int
	TargetParticipationBps uint32
	RewardRateBps          uint32
	RewardReserve          *big.Int
	SafetyMarginBps        uint32
	StartTime              int64
	EndTime                int64
}

// SanitizeCampaign validates a campaign against its structural invariants and
// returns a deep copy with non-nil amount fields. The original is never
// mutated; a violated invariant fails loudly rather than defaulting.
func SanitizeCampaign(c *Campaign) (*Campaign, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil campaign", ErrInvalidParameters)
	}
	clone := c.Clone()
	if clone.OriginalSupply.Sign() <= 0 {
		return nil, fmt.Errorf("%w: original supply must be positive", ErrInvalidParameters)
	}
	if clone.RewardReserve.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reward reserve must be positive", ErrInvalidParameters)
	}
	if clone.TargetParticipationBps < 1 || clone.TargetParticipationBps > BpsDenominator {
		return nil, fmt.Errorf("%w: target participation %d bps outside [1, %d]", ErrInvalidParameters, clone.TargetParticipationBps, BpsDenominator)
	}
	if clone.RewardRateBps < MinRewardRateBps || clone.RewardRateBps > MaxRewardRateBps {
		return nil, fmt.Errorf("%w: reward rate %d bps outside [%d, %d]", ErrInvalidParameters, clone.RewardRateBps, MinRewardRateBps, MaxRewardRateBps)
	}
	if clone.SafetyMarginBps >= BpsDenominator {
		return nil, fmt.Errorf("%w: safety margin %d bps leaves no payable reserve", ErrInvalidParameters, clone.SafetyMarginBps)
	}
	if clone.StartTime >= clone.EndTime {
		return nil, fmt.Errorf("%w: start time %d not before end time %d", ErrInvalidParameters, clone.StartTime, clone.EndTime)
	}
	if clone.MinGoal.Sign() <= 0 || clone.MinGoal.Cmp(clone.OriginalSupply) > 0 {
		return nil, fmt.Errorf("%w: goal must be positive and within the original supply", ErrInvalidParameters)
	}
	if clone.MaxSafeContribution.Sign() <= 0 {
		return nil, fmt.Errorf("%w: safe contribution ceiling must be positive", ErrInvalidParameters)
	}
	if clone.TotalContributed.Sign() < 0 || clone.TotalContributed.Cmp(clone.MaxSafeContribution) > 0 {
		return nil, fmt.Errorf("%w: total contributed exceeds the safe ceiling", ErrInvalidParameters)
	}
	return clone, nil
}

func newBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
