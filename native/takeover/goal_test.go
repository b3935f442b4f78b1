package takeover

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"
)

func TestComputeGoalWorkedExample(t *testing.T) {
	goal, err := ComputeGoal(
		big.NewInt(1_000_000_000_000),
		1_000,
		150,
		big.NewInt(800_000_000_000),
		200,
	)
	if err != nil {
		t.Fatalf("compute goal failed: %v", err)
	}
	if goal.ParticipationAmount.Cmp(big.NewInt(100_000_000_000)) != 0 {
		t.Fatalf("participation = %s, want 100000000000", goal.ParticipationAmount)
	}
	if goal.CapacityAmount.Cmp(big.NewInt(52_266_666_666_666)) != 0 {
		t.Fatalf("capacity = %s, want 52266666666666", goal.CapacityAmount)
	}
	if goal.MinGoal.Cmp(goal.ParticipationAmount) != 0 {
		t.Fatalf("participation method should win: minGoal = %s", goal.MinGoal)
	}
	if goal.MaxSafeContribution.Cmp(goal.CapacityAmount) != 0 {
		t.Fatalf("ceiling should equal capacity: %s", goal.MaxSafeContribution)
	}
}

func TestComputeGoalCapacityWins(t *testing.T) {
	// Shallow reserve against a 100% participation target: method B is
	// smaller and caps the goal so it can never imply an overflow.
	goal, err := ComputeGoal(
		big.NewInt(1_000_000_000_000),
		10_000,
		150,
		big.NewInt(1_000_000_000),
		200,
	)
	if err != nil {
		t.Fatalf("compute goal failed: %v", err)
	}
	// effectiveReserve = 980e6; capacity = 980e6 * 10000 / 150.
	if goal.CapacityAmount.Cmp(big.NewInt(65_333_333_333)) != 0 {
		t.Fatalf("capacity = %s, want 65333333333", goal.CapacityAmount)
	}
	if goal.MinGoal.Cmp(goal.CapacityAmount) != 0 {
		t.Fatalf("capacity method should win: minGoal = %s", goal.MinGoal)
	}
}

func TestComputeGoalParticipationWins(t *testing.T) {
	// Tiny participation target against a deep reserve: method A is smaller.
	goal, err := ComputeGoal(
		big.NewInt(1_000_000),
		100, // 1%
		100, // 1.0x
		big.NewInt(10_000_000),
		0,
	)
	if err != nil {
		t.Fatalf("compute goal failed: %v", err)
	}
	if goal.MinGoal.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("minGoal = %s, want participation amount 10000", goal.MinGoal)
	}
	if goal.MaxSafeContribution.Cmp(goal.CapacityAmount) != 0 {
		t.Fatalf("ceiling must stay capacity-based even when participation wins")
	}
}

func TestComputeGoalRejectsInvalidParameters(t *testing.T) {
	cases := []struct {
		name    string
		supply  *big.Int
		target  uint32
		rate    uint32
		reserve *big.Int
		margin  uint32
	}{
		{"zero supply", big.NewInt(0), 1000, 150, big.NewInt(1000), 200},
		{"nil supply", nil, 1000, 150, big.NewInt(1000), 200},
		{"zero reserve", big.NewInt(1000), 1000, 150, big.NewInt(0), 200},
		{"rate below band", big.NewInt(1000), 1000, 99, big.NewInt(1000), 200},
		{"rate above band", big.NewInt(1000), 1000, 201, big.NewInt(1000), 200},
		{"target zero", big.NewInt(1000), 0, 150, big.NewInt(1000), 200},
		{"target above denominator", big.NewInt(1000), 10_001, 150, big.NewInt(1000), 200},
		{"margin consumes reserve", big.NewInt(1000), 1000, 150, big.NewInt(1000), 10_000},
	}
	for _, tc := range cases {
		if _, err := ComputeGoal(tc.supply, tc.target, tc.rate, tc.reserve, tc.margin); !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("%s: expected ErrInvalidParameters, got %v", tc.name, err)
		}
	}
}

func TestComputeGoalConservative(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 2_000; i++ {
		supply := big.NewInt(1 + rnd.Int63n(1_000_000_000_000))
		reserve := big.NewInt(1 + rnd.Int63n(1_000_000_000_000))
		target := uint32(1 + rnd.Intn(10_000))
		rate := uint32(100 + rnd.Intn(101))
		margin := uint32(rnd.Intn(1_000))

		goal, err := ComputeGoal(supply, target, rate, reserve, margin)
		if err != nil {
			if errors.Is(err, ErrInvalidParameters) {
				continue // derived goal of zero; rejected, never understated
			}
			t.Fatalf("unexpected error: %v", err)
		}
		if goal.MinGoal.Cmp(supply) > 0 {
			t.Fatalf("minGoal %s exceeds supply %s", goal.MinGoal, supply)
		}
		// Reward promised at the ceiling never exceeds the cushioned reserve.
		promised := applyBps(goal.MaxSafeContribution, rate)
		cushioned := retainBps(reserve, margin)
		if promised.Cmp(cushioned) > 0 {
			t.Fatalf("promised %s exceeds cushioned reserve %s (supply=%s reserve=%s rate=%d margin=%d)",
				promised, cushioned, supply, reserve, rate, margin)
		}
	}
}
