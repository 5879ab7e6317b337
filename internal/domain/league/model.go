package league

import (
	"fmt"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
)

// RosterCaps enumerates the allowed league sizes.
var RosterCaps = []int{4, 6, 8, 10, 12, 14}

// League is one season-long competition instance.
type League struct {
	ID             string
	Name           string
	OwnerUserID    string
	RosterCap      int
	SeasonWeeks    int
	ScoringConfig  scoring.Config
	FrozenConfig   scoring.Config
	StartDate      *time.Time
	CurrentWeek    int
	PlayoffStarted bool
	ChampionID     *string
	Active         bool
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if !ValidRosterCap(l.RosterCap) {
		return fmt.Errorf("roster cap %d is not one of %v", l.RosterCap, RosterCaps)
	}
	if l.SeasonWeeks < 1 {
		return fmt.Errorf("season length must be >= 1 week")
	}
	if l.CurrentWeek < 1 || l.CurrentWeek > l.SeasonWeeks+1 {
		return fmt.Errorf("current week %d outside [1, %d]", l.CurrentWeek, l.SeasonWeeks+1)
	}
	if l.StartDate != nil && l.StartDate.UTC().Weekday() != time.Monday {
		return fmt.Errorf("start date must fall on a Monday (UTC)")
	}
	return nil
}

func ValidRosterCap(cap int) bool {
	for _, allowed := range RosterCaps {
		if cap == allowed {
			return true
		}
	}
	return false
}

// Started reports whether the season clock is running.
func (l League) Started() bool {
	return l.StartDate != nil
}

// RegularSeasonComplete reports whether every regular-season week has been
// finalized, i.e. the week pointer sits on the playoff round marker.
func (l League) RegularSeasonComplete() bool {
	return l.CurrentWeek > l.SeasonWeeks
}

// EffectiveScoringConfig is the config weekly scores must be computed
// with: the frozen snapshot once the season has started, else the live map.
func (l League) EffectiveScoringConfig() scoring.Config {
	if l.Started() && l.FrozenConfig != nil {
		return l.FrozenConfig
	}
	return l.ScoringConfig
}

// WeekIndex computes the 1-based calendar week number relative to the
// league start against the canonical UTC clock. Returns 0 before the start.
func (l League) WeekIndex(now time.Time) int {
	if l.StartDate == nil {
		return 0
	}
	elapsed := now.UTC().Sub(l.StartDate.UTC())
	if elapsed < 0 {
		return 0
	}
	return int(elapsed/(7*24*time.Hour)) + 1
}

// NextMonday returns the first Monday 00:00 UTC strictly after now, the
// canonical start boundary assigned when a league begins its season.
func NextMonday(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}
