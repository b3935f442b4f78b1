package config

import (
	"fmt"
	"math/big"
	"strings"
)

const bpsDenominator = 10_000

// Engine safety band for the reward rate; guardrails may narrow it, never
// widen it.
const (
	engineMinRewardRateBps = 100
	engineMaxRewardRateBps = 200
)

// Validate checks every range the engine depends on. Ambiguous or
// out-of-band values fail here rather than flowing into goal arithmetic.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if err := c.Guardrails.validate(); err != nil {
		return err
	}
	return c.Simulator.validate()
}

func (g Guardrails) validate() error {
	if g.MinRewardRateBps < engineMinRewardRateBps {
		return fmt.Errorf("guardrails: MinRewardRateBps %d below engine floor %d", g.MinRewardRateBps, engineMinRewardRateBps)
	}
	if g.MaxRewardRateBps > engineMaxRewardRateBps {
		return fmt.Errorf("guardrails: MaxRewardRateBps %d above engine ceiling %d", g.MaxRewardRateBps, engineMaxRewardRateBps)
	}
	if g.MinRewardRateBps > g.MaxRewardRateBps {
		return fmt.Errorf("guardrails: reward rate band [%d, %d] is empty", g.MinRewardRateBps, g.MaxRewardRateBps)
	}
	if g.DefaultSafetyMarginBps >= bpsDenominator {
		return fmt.Errorf("guardrails: DefaultSafetyMarginBps %d leaves no payable reserve", g.DefaultSafetyMarginBps)
	}
	if g.ReserveRatioBps == 0 || g.ReserveRatioBps > bpsDenominator {
		return fmt.Errorf("guardrails: ReserveRatioBps %d outside (0, %d]", g.ReserveRatioBps, bpsDenominator)
	}
	return nil
}

func (s Simulator) validate() error {
	if s.Contributors <= 0 {
		return fmt.Errorf("simulator: Contributors must be positive")
	}
	if s.ContributionsPerSecond <= 0 {
		return fmt.Errorf("simulator: ContributionsPerSecond must be positive")
	}
	if s.DurationSeconds <= 0 {
		return fmt.Errorf("simulator: DurationSeconds must be positive")
	}
	if s.TargetParticipationBps < 1 || s.TargetParticipationBps > bpsDenominator {
		return fmt.Errorf("simulator: TargetParticipationBps %d outside [1, %d]", s.TargetParticipationBps, bpsDenominator)
	}
	if _, err := parseAmount(s.OriginalSupply); err != nil {
		return fmt.Errorf("simulator: invalid OriginalSupply: %w", err)
	}
	if _, err := parseAmount(s.NewTokenSupply); err != nil {
		return fmt.Errorf("simulator: invalid NewTokenSupply: %w", err)
	}
	return nil
}

// OriginalSupplyAmount returns the parsed original token supply.
func (s Simulator) OriginalSupplyAmount() (*big.Int, error) {
	return parseAmount(s.OriginalSupply)
}

// NewTokenSupplyAmount returns the parsed new token supply.
func (s Simulator) NewTokenSupplyAmount() (*big.Int, error) {
	return parseAmount(s.NewTokenSupply)
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(value), "_", "")
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}
