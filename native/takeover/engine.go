package takeover

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"takeover/core/events"
	"takeover/native/common"
)

// ModuleName identifies this engine to the operator pause switch.
const ModuleName = "takeover"

// CampaignTx is the serialized view of one campaign and its contributions
// handed to an update callback. Implementations must hold the campaign's
// lock for the duration of the callback, expose working copies, commit them
// when the callback returns nil and discard every mutation when it returns an
// error. This is the read-compute-write unit the whole safety design depends
// on: without it two concurrent contributions can both observe stale headroom
// and jointly overflow the safe ceiling.
type CampaignTx interface {
	Campaign() *Campaign
	Contribution(contributor [20]byte) (*Contribution, bool, error)
	PutContribution(ct *Contribution) error
}

type engineState interface {
	CampaignCreate(c *Campaign) error
	CampaignView(id string) (*Campaign, bool, error)
	CampaignUpdate(id string, fn func(tx CampaignTx) error) error
	ContributionList(campaignID string) ([]*Contribution, error)
}

// Engine wires the funding safety and settlement logic to persistence, event
// emission and an operator pause switch. The arithmetic itself lives in the
// pure ComputeGoal/Admit/Evaluate/Resolve functions; the engine supplies the
// serialization and at-most-once discipline around them.
type Engine struct {
	state   engineState
	emitter events.Emitter
	pauses  common.PauseView
	nowFn   func() int64
}

// NewEngine constructs a takeover engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses configures the operator pause view consulted before mutations.
func (e *Engine) SetPauses(p common.PauseView) { e.pauses = p }

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// LaunchCampaign validates the creator-supplied parameters, derives the
// funding goal and safe ceiling, and persists the new campaign. Launch and
// contribution intake respect the pause switch; finalization and claims do
// not, so funds can always exit.
func (e *Engine) LaunchCampaign(params CampaignParams) (*Campaign, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	goal, err := ComputeGoal(params.OriginalSupply, params.TargetParticipationBps, params.RewardRateBps, params.RewardReserve, params.SafetyMarginBps)
	if err != nil {
		return nil, err
	}
	now := e.now()
	start := params.StartTime
	if start == 0 {
		start = now
	}
	if start >= params.EndTime {
		return nil, fmt.Errorf("%w: start time %d not before end time %d", ErrInvalidParameters, start, params.EndTime)
	}
	campaign := &Campaign{
		ID:                     uuid.NewString(),
		Creator:                params.Creator,
		OriginalSupply:         newBigInt(params.OriginalSupply),
		TargetParticipationBps: params.TargetParticipationBps,
		RewardRateBps:          params.RewardRateBps,
		RewardReserve:          newBigInt(params.RewardReserve),
		SafetyMarginBps:        params.SafetyMarginBps,
		MinGoal:                goal.MinGoal,
		MaxSafeContribution:    goal.MaxSafeContribution,
		TotalContributed:       big.NewInt(0),
		StartTime:              start,
		EndTime:                params.EndTime,
		CreatedAt:              now,
	}
	sanitized, err := SanitizeCampaign(campaign)
	if err != nil {
		return nil, err
	}
	if err := e.state.CampaignCreate(sanitized); err != nil {
		return nil, err
	}
	e.emit(WrapEvent(CampaignLaunchedEvent(sanitized)))
	return sanitized.Clone(), nil
}

// Contribute admits a proposed contribution against the campaign's current
// headroom and records it. The admission decision, the contribution row and
// the new running total commit as one serialized unit, so concurrent callers
// can never jointly overflow the safe ceiling.
func (e *Engine) Contribute(campaignID string, contributor [20]byte, amount *big.Int) (*AdmissionResult, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	var result *AdmissionResult
	err := e.state.CampaignUpdate(campaignID, func(tx CampaignTx) error {
		c := tx.Campaign()
		res, err := Admit(c, amount, e.now())
		if err != nil {
			return err
		}
		result = res
		if res.Rejected {
			return nil
		}
		existing, ok, err := tx.Contribution(contributor)
		if err != nil {
			return err
		}
		if ok && existing != nil {
			existing.Amount = new(big.Int).Add(newBigInt(existing.Amount), res.AdmittedAmount)
			existing.ContributedAt = e.now()
			if err := tx.PutContribution(existing); err != nil {
				return err
			}
		} else {
			ct := &Contribution{
				CampaignID:    campaignID,
				Contributor:   contributor,
				Amount:        new(big.Int).Set(res.AdmittedAmount),
				ContributedAt: e.now(),
			}
			if err := tx.PutContribution(ct); err != nil {
				return err
			}
		}
		c.TotalContributed = new(big.Int).Add(newBigInt(c.TotalContributed), res.AdmittedAmount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Rejected {
		e.emit(WrapEvent(ContributionRejectedEvent(campaignID, hexAddr(contributor), amount.String())))
	} else {
		e.emit(WrapEvent(ContributionAdmittedEvent(campaignID, hexAddr(contributor), amount.String(), result.AdmittedAmount.String(), result)))
	}
	return result, nil
}

// Finalize commits the one-way success/failure transition. The check and the
// flag set happen inside the campaign's serialized update, which makes the
// transition a compare-and-set: a concurrent duplicate observes the committed
// flag and fails with ErrAlreadyFinalized.
func (e *Engine) Finalize(campaignID string) (*FinalizationDecision, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var decision *FinalizationDecision
	var finalized *Campaign
	err := e.state.CampaignUpdate(campaignID, func(tx CampaignTx) error {
		c := tx.Campaign()
		d, err := Evaluate(c, e.now())
		if err != nil {
			return err
		}
		if !d.Ready {
			return fmt.Errorf("%w: %s", ErrCampaignActive, d.Reason)
		}
		c.Finalized = true
		c.Successful = d.Outcome == OutcomeSuccessful
		decision = d
		finalized = c.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(WrapEvent(CampaignFinalizedEvent(finalized, decision.Reason)))
	return decision, nil
}

// Claim resolves the contributor's terminal claim and marks the contribution
// claimed in the same serialized unit, guaranteeing at-most-once settlement.
// The engine returns the pre-authorized amount; moving tokens is the host's
// job.
func (e *Engine) Claim(campaignID string, contributor [20]byte) (*ClaimResult, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var result *ClaimResult
	err := e.state.CampaignUpdate(campaignID, func(tx CampaignTx) error {
		c := tx.Campaign()
		ct, ok, err := tx.Contribution(contributor)
		if err != nil {
			return err
		}
		if !ok || ct == nil {
			return ErrContributionNotFound
		}
		res, err := Resolve(c, ct)
		if err != nil {
			return err
		}
		ct.Claimed = true
		if err := tx.PutContribution(ct); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(WrapEvent(ClaimSettledEvent(campaignID, hexAddr(contributor), result)))
	if result.Scaled {
		e.emit(WrapEvent(SettlementScaledEvent(campaignID, hexAddr(contributor), result.Amount.String())))
	}
	return result, nil
}

// Campaign returns a snapshot of the campaign without mutating state.
func (e *Engine) Campaign(campaignID string) (*Campaign, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	c, ok, err := e.state.CampaignView(campaignID)
	if err != nil {
		return nil, err
	}
	if !ok || c == nil {
		return nil, ErrCampaignNotFound
	}
	return c.Clone(), nil
}

// Contributions returns snapshots of every contribution recorded against the
// campaign.
func (e *Engine) Contributions(campaignID string) ([]*Contribution, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	list, err := e.state.ContributionList(campaignID)
	if err != nil {
		return nil, err
	}
	out := make([]*Contribution, 0, len(list))
	for _, ct := range list {
		out = append(out, ct.Clone())
	}
	return out, nil
}

// Decision evaluates the finalization policy against the current snapshot
// without committing anything. Callers poll it to learn when Finalize will
// succeed.
func (e *Engine) Decision(campaignID string) (*FinalizationDecision, error) {
	c, err := e.Campaign(campaignID)
	if err != nil {
		return nil, err
	}
	return Evaluate(c, e.now())
}
