package takeover

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"
)

func exampleCampaign() *Campaign {
	return &Campaign{
		ID:                     "camp-1",
		OriginalSupply:         big.NewInt(1_000_000_000_000),
		TargetParticipationBps: 1_000,
		RewardRateBps:          150,
		RewardReserve:          big.NewInt(800_000_000_000),
		SafetyMarginBps:        200,
		MinGoal:                big.NewInt(52_266_666_666),
		MaxSafeContribution:    big.NewInt(52_266_666_666),
		TotalContributed:       big.NewInt(0),
		StartTime:              1_000,
		EndTime:                2_000,
	}
}

func TestAdmitFullWhenUnderHeadroom(t *testing.T) {
	c := exampleCampaign()
	res, err := Admit(c, big.NewInt(1_000_000), 1_500)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if res.Rejected || res.Scaled {
		t.Fatalf("expected full admission, got %+v", res)
	}
	if res.AdmittedAmount.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("admitted = %s, want proposed", res.AdmittedAmount)
	}
	if res.RiskLevel != RiskLow {
		t.Fatalf("risk = %s, want low", res.RiskLevel)
	}
}

func TestAdmitScalesSecondLargeContribution(t *testing.T) {
	c := exampleCampaign()
	first, err := Admit(c, big.NewInt(40_000_000_000), 1_500)
	if err != nil {
		t.Fatalf("first admit failed: %v", err)
	}
	if first.Scaled || first.AdmittedAmount.Cmp(big.NewInt(40_000_000_000)) != 0 {
		t.Fatalf("first proposal should admit in full, got %+v", first)
	}
	// Serialized host applies the first admission before the second runs.
	c.TotalContributed = new(big.Int).Add(c.TotalContributed, first.AdmittedAmount)

	second, err := Admit(c, big.NewInt(40_000_000_000), 1_500)
	if err != nil {
		t.Fatalf("second admit failed: %v", err)
	}
	if !second.Scaled {
		t.Fatalf("second proposal should scale to headroom")
	}
	if second.AdmittedAmount.Cmp(big.NewInt(12_266_666_666)) != 0 {
		t.Fatalf("admitted = %s, want 12266666666", second.AdmittedAmount)
	}
	if second.RiskLevel != RiskHigh {
		t.Fatalf("risk = %s, want high", second.RiskLevel)
	}
	post := new(big.Int).Add(c.TotalContributed, second.AdmittedAmount)
	if post.Cmp(c.MaxSafeContribution) > 0 {
		t.Fatalf("post-admission total %s exceeds ceiling %s", post, c.MaxSafeContribution)
	}
}

func TestAdmitRejectsWithoutHeadroom(t *testing.T) {
	c := exampleCampaign()
	c.TotalContributed = new(big.Int).Set(c.MaxSafeContribution)
	res, err := Admit(c, big.NewInt(1), 1_500)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if !res.Rejected || res.AdmittedAmount.Sign() != 0 {
		t.Fatalf("expected rejection with zero admitted, got %+v", res)
	}
	if res.RiskLevel != RiskHigh {
		t.Fatalf("risk = %s, want high", res.RiskLevel)
	}
}

func TestAdmitWindowAndAmountGuards(t *testing.T) {
	c := exampleCampaign()
	if _, err := Admit(c, big.NewInt(1), 999); !errors.Is(err, ErrCampaignClosed) {
		t.Fatalf("before start: expected ErrCampaignClosed, got %v", err)
	}
	if _, err := Admit(c, big.NewInt(1), 2_000); !errors.Is(err, ErrCampaignClosed) {
		t.Fatalf("at end time: expected ErrCampaignClosed, got %v", err)
	}
	// No grace window: goal met does not reopen an expired campaign.
	c.TotalContributed = new(big.Int).Set(c.MinGoal)
	if _, err := Admit(c, big.NewInt(1), 2_500); !errors.Is(err, ErrCampaignClosed) {
		t.Fatalf("after end with goal met: expected ErrCampaignClosed, got %v", err)
	}
	c = exampleCampaign()
	c.Finalized = true
	if _, err := Admit(c, big.NewInt(1), 1_500); !errors.Is(err, ErrCampaignClosed) {
		t.Fatalf("finalized: expected ErrCampaignClosed, got %v", err)
	}
	c = exampleCampaign()
	if _, err := Admit(c, big.NewInt(0), 1_500); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := Admit(c, nil, 1_500); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("nil amount: expected ErrInvalidAmount, got %v", err)
	}
}

func TestAdmitRiskBands(t *testing.T) {
	c := exampleCampaign()
	c.MaxSafeContribution = big.NewInt(10_000)
	cases := []struct {
		proposed int64
		want     RiskLevel
	}{
		{7_999, RiskLow},
		{8_000, RiskMedium},
		{9_499, RiskMedium},
		{9_500, RiskHigh},
		{10_000, RiskHigh},
	}
	for _, tc := range cases {
		c.TotalContributed = big.NewInt(0)
		res, err := Admit(c, big.NewInt(tc.proposed), 1_500)
		if err != nil {
			t.Fatalf("admit(%d) failed: %v", tc.proposed, err)
		}
		if res.RiskLevel != tc.want {
			t.Fatalf("admit(%d) risk = %s, want %s", tc.proposed, res.RiskLevel, tc.want)
		}
	}
}

// Sequentially admitted random proposals must never push the running total
// past the safe ceiling, and admission must conserve: never admit more than
// proposed, and admit exactly the proposal whenever it fits.
func TestAdmitNeverOverflowsCeiling(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		c := exampleCampaign()
		c.MaxSafeContribution = big.NewInt(1 + rnd.Int63n(1_000_000_000))
		c.MinGoal = new(big.Int).Set(c.MaxSafeContribution)
		for i := 0; i < 200; i++ {
			proposed := big.NewInt(1 + rnd.Int63n(50_000_000))
			headroom := new(big.Int).Sub(c.MaxSafeContribution, c.TotalContributed)
			res, err := Admit(c, proposed, 1_500)
			if err != nil {
				t.Fatalf("admit failed: %v", err)
			}
			if res.AdmittedAmount.Cmp(proposed) > 0 {
				t.Fatalf("admitted %s exceeds proposed %s", res.AdmittedAmount, proposed)
			}
			if proposed.Cmp(headroom) <= 0 && res.AdmittedAmount.Cmp(proposed) != 0 {
				t.Fatalf("proposal %s within headroom %s not admitted in full", proposed, headroom)
			}
			c.TotalContributed = new(big.Int).Add(c.TotalContributed, res.AdmittedAmount)
			if c.TotalContributed.Cmp(c.MaxSafeContribution) > 0 {
				t.Fatalf("running total %s exceeded ceiling %s", c.TotalContributed, c.MaxSafeContribution)
			}
		}
	}
}
