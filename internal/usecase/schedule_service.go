package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitrivals/fitrivals-api/internal/domain/competition"
	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
	"github.com/fitrivals/fitrivals-api/internal/domain/schedule"
	"github.com/fitrivals/fitrivals-api/internal/platform/id"
)

// ScheduleService creates the weekly matchup batches.
type ScheduleService struct {
	store competition.Store
	ids   id.Generator
}

func NewScheduleService(store competition.Store, ids id.Generator) *ScheduleService {
	return &ScheduleService{
		store: store,
		ids:   ids,
	}
}

// GenerateWeekSchedule produces the round-robin pairings for (league,
// week) and persists them as one batch. When matchups already exist for
// the week it returns the existing set unchanged: an idempotent no-op,
// not an error. memberIDs overrides the roster; pass nil to use the
// league's current membership.
func (s *ScheduleService) GenerateWeekSchedule(ctx context.Context, leagueID string, week int, memberIDs []string) ([]matchup.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GenerateWeekSchedule")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if week < 1 {
		return nil, fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}

	var out []matchup.Matchup
	err := s.store.Exec(ctx, func(tx competition.Tx) error {
		if err := tx.AcquireLock(ctx, competition.WeekLockKey(leagueID, week)); err != nil {
			return fmt.Errorf("acquire week lock: %w", err)
		}

		lg, exists, err := tx.GetLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if week > lg.SeasonWeeks {
			return fmt.Errorf("%w: week %d beyond season length %d", ErrInvalidInput, week, lg.SeasonWeeks)
		}

		existing, err := tx.ListMatchups(ctx, leagueID, week)
		if err != nil {
			return fmt.Errorf("list matchups: %w", err)
		}
		if len(existing) > 0 {
			out = existing
			return nil
		}

		roster := memberIDs
		if len(roster) == 0 {
			members, err := tx.ListMembers(ctx, leagueID)
			if err != nil {
				return fmt.Errorf("list members: %w", err)
			}
			roster = make([]string, 0, len(members))
			for _, m := range members {
				roster = append(roster, m.ID)
			}
		}
		if len(roster) < 2 {
			return fmt.Errorf("%w: league=%s has %d members", ErrInsufficientMembers, leagueID, len(roster))
		}

		pairings, err := schedule.RoundRobin(roster, week)
		if err != nil {
			return fmt.Errorf("generate week %d schedule: %w", week, err)
		}
		// A pairing set that double-books or skips a member must never
		// reach storage; abort the whole batch before a row is written.
		if err := schedule.Validate(roster, pairings); err != nil {
			return fmt.Errorf("validate week %d schedule: %w", week, err)
		}

		batch := make([]matchup.Matchup, 0, len(pairings))
		for slot, p := range pairings {
			matchID, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("new matchup id: %w", err)
			}
			m := matchup.Matchup{
				ID:           matchID,
				LeagueID:     leagueID,
				Week:         week,
				Slot:         slot + 1,
				HomeMemberID: p.Home,
			}
			if !p.Bye() {
				away := p.Away
				m.AwayMemberID = &away
			}
			if err := m.Validate(); err != nil {
				return fmt.Errorf("invalid generated matchup: %w", err)
			}
			batch = append(batch, m)
		}

		if err := tx.InsertMatchups(ctx, batch); err != nil {
			return fmt.Errorf("insert week %d matchups: %w", week, err)
		}

		out = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
