package weeklyscore

import (
	"fmt"

	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
)

// WeeklyScore is one (league, user, week) record of raw metrics and the
// point total derived from them. Overwritten freely by device syncs;
// once the owning week's matchups are finalized, later writes no longer
// reach standings (the matchup keeps its own snapshot).
type WeeklyScore struct {
	LeagueID string
	UserID   string
	Week     int
	Metrics  scoring.Metrics
	Points   float64
}

func (s WeeklyScore) Validate() error {
	if s.LeagueID == "" {
		return fmt.Errorf("weekly score league id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("weekly score user id is required")
	}
	if s.Week < 1 {
		return fmt.Errorf("weekly score week must be >= 1, got %d", s.Week)
	}
	return nil
}
