package takeover

import "errors"

var (
	// ErrInvalidParameters rejects a malformed campaign configuration before
	// any of it is applied.
	ErrInvalidParameters = errors.New("takeover engine: invalid campaign parameters")
	// ErrInvalidAmount rejects a non-positive proposed contribution.
	ErrInvalidAmount = errors.New("takeover engine: amount must be positive")
	// ErrCampaignClosed rejects contributions to a finalized campaign or one
	// outside its admission window.
	ErrCampaignClosed = errors.New("takeover engine: campaign closed to contributions")
	// ErrAlreadyFinalized signals a duplicate finalize attempt so callers can
	// surface double-submission bugs instead of silently no-opping.
	ErrAlreadyFinalized = errors.New("takeover engine: campaign already finalized")
	// ErrNotFinalized rejects settlement before the campaign outcome is locked.
	ErrNotFinalized = errors.New("takeover engine: campaign not finalized")
	// ErrAlreadyClaimed enforces at-most-once settlement per contribution.
	ErrAlreadyClaimed = errors.New("takeover engine: contribution already claimed")
	// ErrCampaignActive signals a finalize attempt before the campaign is
	// eligible (goal unmet and clock not expired).
	ErrCampaignActive = errors.New("takeover engine: campaign still active")

	ErrCampaignNotFound     = errors.New("takeover engine: campaign not found")
	ErrContributionNotFound = errors.New("takeover engine: contribution not found")

	errNilState = errors.New("takeover engine: state not configured")
)
