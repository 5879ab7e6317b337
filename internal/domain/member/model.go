package member

import "fmt"

// Member is one user's participation record within one league. The
// aggregate fields (wins/losses/ties/points, seed, tiebreaker,
// eliminated) are written only by the competition state machine.
type Member struct {
	ID       string
	LeagueID string
	UserID   string

	Wins   int
	Losses int
	Ties   int
	// TotalPoints equals the sum of this member's finalized weekly scores.
	// The invariant is guaranteed by the week finalizer's idempotency
	// flag, never by recomputation.
	TotalPoints float64

	Seed *int
	// TiebreakerPoints is frozen once at playoff generation and never
	// mutated afterwards.
	TiebreakerPoints *float64
	Eliminated       bool
}

func (m Member) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("member id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("member league id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("member user id is required")
	}
	if m.Wins < 0 || m.Losses < 0 || m.Ties < 0 {
		return fmt.Errorf("win/loss/tie counts cannot be negative")
	}
	return nil
}
