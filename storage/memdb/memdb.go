// Package memdb is an in-memory campaign registry with an explicit
// create/destroy lifecycle and per-campaign serialization. It backs the
// takeover engine in tests and in the reference daemon; a durable host swaps
// in its own store with equivalent transactional semantics.
package memdb

import (
	"sync"

	"takeover/native/takeover"
)

// Store holds campaigns keyed by identifier. Snapshots are deep-copied on
// the way in and out so no caller can reach the stored instances.
type Store struct {
	mu        sync.RWMutex
	campaigns map[string]*entry
}

type entry struct {
	// mu serializes every read-compute-write unit against this campaign.
	mu            sync.Mutex
	campaign      *takeover.Campaign
	contributions map[[20]byte]*takeover.Contribution
	order         [][20]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{campaigns: make(map[string]*entry)}
}

// CampaignCreate registers a new campaign. Creating an existing identifier
// fails rather than overwriting.
func (s *Store) CampaignCreate(c *takeover.Campaign) error {
	if c == nil || c.ID == "" {
		return takeover.ErrInvalidParameters
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[c.ID]; ok {
		return takeover.ErrInvalidParameters
	}
	s.campaigns[c.ID] = &entry{
		campaign:      c.Clone(),
		contributions: make(map[[20]byte]*takeover.Contribution),
	}
	return nil
}

// CampaignView returns a snapshot of the campaign.
func (s *Store) CampaignView(id string) (*takeover.Campaign, bool, error) {
	ent, ok := s.entry(id)
	if !ok {
		return nil, false, nil
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.campaign.Clone(), true, nil
}

// CampaignUpdate runs fn with the campaign's lock held. The callback sees
// working copies; they commit only when fn returns nil, so a failed update
// leaves the campaign and its contributions untouched.
func (s *Store) CampaignUpdate(id string, fn func(tx takeover.CampaignTx) error) error {
	ent, ok := s.entry(id)
	if !ok {
		return takeover.ErrCampaignNotFound
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	tx := &campaignTx{
		entry:   ent,
		working: ent.campaign.Clone(),
		staged:  make(map[[20]byte]*takeover.Contribution),
	}
	if err := fn(tx); err != nil {
		return err
	}
	ent.campaign = tx.working
	for _, addr := range tx.stagedOrder {
		if _, exists := ent.contributions[addr]; !exists {
			ent.order = append(ent.order, addr)
		}
		ent.contributions[addr] = tx.staged[addr]
	}
	return nil
}

// ContributionList returns snapshots of the campaign's contributions in
// insertion order.
func (s *Store) ContributionList(id string) ([]*takeover.Contribution, error) {
	ent, ok := s.entry(id)
	if !ok {
		return nil, takeover.ErrCampaignNotFound
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	out := make([]*takeover.Contribution, 0, len(ent.order))
	for _, addr := range ent.order {
		out = append(out, ent.contributions[addr].Clone())
	}
	return out, nil
}

// CampaignDestroy removes the campaign and its contributions.
func (s *Store) CampaignDestroy(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[id]; !ok {
		return takeover.ErrCampaignNotFound
	}
	delete(s.campaigns, id)
	return nil
}

func (s *Store) entry(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.campaigns[id]
	return ent, ok
}

type campaignTx struct {
	entry       *entry
	working     *takeover.Campaign
	staged      map[[20]byte]*takeover.Contribution
	stagedOrder [][20]byte
}

func (tx *campaignTx) Campaign() *takeover.Campaign { return tx.working }

func (tx *campaignTx) Contribution(contributor [20]byte) (*takeover.Contribution, bool, error) {
	if ct, ok := tx.staged[contributor]; ok {
		return ct, true, nil
	}
	ct, ok := tx.entry.contributions[contributor]
	if !ok {
		return nil, false, nil
	}
	return ct.Clone(), true, nil
}

func (tx *campaignTx) PutContribution(ct *takeover.Contribution) error {
	if ct == nil {
		return takeover.ErrInvalidParameters
	}
	if _, ok := tx.staged[ct.Contributor]; !ok {
		tx.stagedOrder = append(tx.stagedOrder, ct.Contributor)
	}
	tx.staged[ct.Contributor] = ct.Clone()
	return nil
}
