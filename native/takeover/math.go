package takeover

import "math/big"

// All rates and ratios are configured in basis points (1/10000) so no money
// path ever touches binary floating point. Divisions floor; every formula is
// arranged so truncation biases the result conservative (smaller goal,
// smaller ceiling, smaller payout).
const (
	// BpsDenominator is the basis-point scale: 10000 bps = 1.0x.
	BpsDenominator = 10_000

	// MinRewardRateBps and MaxRewardRateBps bound the payout multiplier to
	// the 1.0x-2.0x safety band.
	MinRewardRateBps = 100
	MaxRewardRateBps = 200
)

var bpsDenom = big.NewInt(BpsDenominator)

// applyBps returns amount * bps / 10000, floored. Nil amounts are zero.
func applyBps(amount *big.Int, bps uint32) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	return out.Div(out, bpsDenom)
}

// retainBps returns amount * (10000 - bps) / 10000, i.e. the amount left
// after carving out a bps-sized cushion.
func retainBps(amount *big.Int, bps uint32) *big.Int {
	if bps >= BpsDenominator {
		return big.NewInt(0)
	}
	return applyBps(amount, BpsDenominator-bps)
}

// unapplyRate divides amount by a rate expressed in basis points:
// amount * 10000 / rateBps, floored.
func unapplyRate(amount *big.Int, rateBps uint32) *big.Int {
	if amount == nil || rateBps == 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(amount, bpsDenom)
	return out.Div(out, big.NewInt(int64(rateBps)))
}

// utilizationBps reports used/capacity as floored basis points, clamped to
// [0, 10000]. A missing or non-positive capacity reads as fully utilized so
// downstream risk handling stays conservative.
func utilizationBps(used, capacity *big.Int) uint32 {
	if capacity == nil || capacity.Sign() <= 0 {
		return BpsDenominator
	}
	if used == nil || used.Sign() <= 0 {
		return 0
	}
	out := new(big.Int).Mul(used, bpsDenom)
	out.Div(out, capacity)
	if !out.IsUint64() || out.Uint64() >= BpsDenominator {
		return BpsDenominator
	}
	return uint32(out.Uint64())
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
