package takeover

import (
	"errors"
	"math/big"
	"testing"
)

func TestEvaluateOutcomes(t *testing.T) {
	cases := []struct {
		name        string
		contributed int64
		now         int64
		wantReady   bool
		wantOutcome Outcome
	}{
		{"active below goal", 10, 1_500, false, OutcomeActive},
		{"goal met before expiry", 100, 1_500, true, OutcomeSuccessful},
		{"goal met exactly", 100, 1_500, true, OutcomeSuccessful},
		{"expired below goal", 10, 2_001, true, OutcomeFailed},
		{"goal met after expiry", 100, 2_001, true, OutcomeSuccessful},
		{"at end time below goal", 10, 2_000, false, OutcomeActive},
	}
	for _, tc := range cases {
		c := exampleCampaign()
		c.MinGoal = big.NewInt(100)
		c.TotalContributed = big.NewInt(tc.contributed)
		d, err := Evaluate(c, tc.now)
		if err != nil {
			t.Fatalf("%s: evaluate failed: %v", tc.name, err)
		}
		if d.Ready != tc.wantReady || d.Outcome != tc.wantOutcome {
			t.Fatalf("%s: got ready=%t outcome=%s, want ready=%t outcome=%s",
				tc.name, d.Ready, d.Outcome, tc.wantReady, tc.wantOutcome)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	c := exampleCampaign()
	c.MinGoal = big.NewInt(100)
	c.TotalContributed = big.NewInt(50)
	first, err := Evaluate(c, 1_800)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	second, err := Evaluate(c, 1_800)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if *first != *second {
		t.Fatalf("identical inputs disagreed: %+v vs %+v", first, second)
	}
}

func TestEvaluateAlreadyFinalized(t *testing.T) {
	c := exampleCampaign()
	c.Finalized = true
	c.Successful = true
	if _, err := Evaluate(c, 3_000); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	// The committed flag must not flip on a duplicate attempt.
	if !c.Successful {
		t.Fatalf("successful flag changed")
	}
}
