package matchup

import (
	"fmt"
	"time"
)

// Matchup is one scheduled head-to-head pairing for (league, week).
// AwayMemberID is nil for a bye. Snapshot fields are immutable once
// Finalized is set, regardless of later weekly score writes.
type Matchup struct {
	ID           string
	LeagueID     string
	Week         int
	Slot         int
	HomeMemberID string
	AwayMemberID *string

	Finalized bool
	// PointsApplied transitions false -> true exactly once, when the
	// matchup's points are rolled into both members' standings.
	PointsApplied  bool
	HomePoints     *float64
	AwayPoints     *float64
	WinnerMemberID *string
	FinalizedAt    *time.Time
}

// Bye reports whether the home member had no opponent this week.
func (m Matchup) Bye() bool {
	return m.AwayMemberID == nil
}

func (m Matchup) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("matchup id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("matchup league id is required")
	}
	if m.Week < 1 {
		return fmt.Errorf("matchup week must be >= 1, got %d", m.Week)
	}
	if m.HomeMemberID == "" {
		return fmt.Errorf("matchup home member is required")
	}
	if m.AwayMemberID != nil && *m.AwayMemberID == m.HomeMemberID {
		return fmt.Errorf("matchup cannot pair member %s with itself", m.HomeMemberID)
	}
	return nil
}
