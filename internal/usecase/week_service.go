package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/competition"
	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
)

// WeekService closes out completed regular-season weeks. FinalizeWeek is
// designed to be called redundantly and concurrently by any number of
// independent callers; all exclusion lives in the competition store.
type WeekService struct {
	store competition.Store
	now   func() time.Time
}

func NewWeekService(store competition.Store) *WeekService {
	return &WeekService{
		store: store,
		now:   time.Now,
	}
}

// FinalizeWeek determines each matchup's outcome for (league, week),
// rolls points and win/loss/tie counts into standings exactly once, and
// advances the league's current-week pointer by one. Safe to retry
// blindly: re-entry re-evaluates the guards and per-matchup flags.
func (s *WeekService) FinalizeWeek(ctx context.Context, leagueID string, week int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.FinalizeWeek")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if week < 1 {
		return fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}

	return s.store.Exec(ctx, func(tx competition.Tx) error {
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

		// Idempotency fast path: another caller already advanced past
		// this week, or the week is not the one due.
		if lg.CurrentWeek != week {
			return nil
		}
		if week > lg.SeasonWeeks {
			return nil
		}

		members, err := tx.ListMembers(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		userByMember := make(map[string]string, len(members))
		for _, m := range members {
			userByMember[m.ID] = m.UserID
		}

		matchups, err := tx.ListMatchups(ctx, leagueID, week)
		if err != nil {
			return fmt.Errorf("list matchups: %w", err)
		}

		finalizedAt := s.now().UTC()
		newlyFinalized := 0
		for _, m := range matchups {
			if m.Finalized {
				continue
			}
			if err := s.finalizeMatchup(ctx, tx, m, userByMember, finalizedAt); err != nil {
				return err
			}
			newlyFinalized++
		}

		// A retried call that found nothing new must not advance the
		// pointer, or a duplicate call could skip a week.
		if newlyFinalized == 0 {
			return nil
		}

		advanced, err := tx.AdvanceWeek(ctx, leagueID, week, finalizedAt)
		if err != nil {
			return fmt.Errorf("advance league week: %w", err)
		}
		if !advanced {
			return fmt.Errorf("league %s week pointer moved during finalization of week %d", leagueID, week)
		}

		return nil
	})
}

func (s *WeekService) finalizeMatchup(ctx context.Context, tx competition.Tx, m matchup.Matchup, userByMember map[string]string, finalizedAt time.Time) error {
	homePoints, err := s.weeklyPoints(ctx, tx, m.LeagueID, userByMember[m.HomeMemberID], m.Week)
	if err != nil {
		return err
	}

	if m.Bye() {
		if !m.PointsApplied {
			if err := tx.CreditMember(ctx, m.HomeMemberID, homePoints, competition.OutcomeBye); err != nil {
				return fmt.Errorf("credit bye member %s: %w", m.HomeMemberID, err)
			}
		}
		if err := tx.FinalizeMatchup(ctx, m.ID, homePoints, nil, nil, finalizedAt); err != nil {
			return fmt.Errorf("finalize bye matchup %s: %w", m.ID, err)
		}
		return nil
	}

	awayMemberID := *m.AwayMemberID
	awayPoints, err := s.weeklyPoints(ctx, tx, m.LeagueID, userByMember[awayMemberID], m.Week)
	if err != nil {
		return err
	}

	homeOutcome, awayOutcome := compareTotals(homePoints, awayPoints)
	var winnerID *string
	switch homeOutcome {
	case competition.OutcomeWin:
		winnerID = &m.HomeMemberID
	case competition.OutcomeLoss:
		winnerID = &awayMemberID
	}

	if !m.PointsApplied {
		if err := tx.CreditMember(ctx, m.HomeMemberID, homePoints, homeOutcome); err != nil {
			return fmt.Errorf("credit member %s: %w", m.HomeMemberID, err)
		}
		if err := tx.CreditMember(ctx, awayMemberID, awayPoints, awayOutcome); err != nil {
			return fmt.Errorf("credit member %s: %w", awayMemberID, err)
		}
	}

	if err := tx.FinalizeMatchup(ctx, m.ID, homePoints, &awayPoints, winnerID, finalizedAt); err != nil {
		return fmt.Errorf("finalize matchup %s: %w", m.ID, err)
	}
	return nil
}

// weeklyPoints treats a missing score record as zero: an inactive member
// is not penalized beyond scoring nothing.
func (s *WeekService) weeklyPoints(ctx context.Context, tx competition.Tx, leagueID, userID string, week int) (float64, error) {
	if userID == "" {
		// Matchup references a member that left the league; score zero.
		return 0, nil
	}
	points, ok, err := tx.WeeklyPoints(ctx, leagueID, userID, week)
	if err != nil {
		return 0, fmt.Errorf("get weekly points user=%s week=%d: %w", userID, week, err)
	}
	if !ok {
		return 0, nil
	}
	return points, nil
}

// compareTotals applies the comparison rule: strictly greater wins,
// exact equality is a tie, including two fully-inactive members both
// scoring zero, which ties rather than double-losing.
func compareTotals(home, away float64) (competition.Outcome, competition.Outcome) {
	switch {
	case home > away:
		return competition.OutcomeWin, competition.OutcomeLoss
	case home < away:
		return competition.OutcomeLoss, competition.OutcomeWin
	default:
		return competition.OutcomeTie, competition.OutcomeTie
	}
}
