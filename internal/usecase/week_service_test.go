package usecase

import (
	"context"
	"testing"

	"github.com/sourcegraph/conc"
)

func TestFinalizeWeekRecordsOutcomeAndAdvances(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	ctx := context.Background()

	h.submitPoints("lg1", "u01", 1, 150.5)
	h.submitPoints("lg1", "u02", 1, 120.0)

	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
		t.Fatalf("finalize week: %v", err)
	}

	if got := h.league("lg1").CurrentWeek; got != 2 {
		t.Fatalf("current week = %d, want 2", got)
	}

	winner := h.member("lg1", "u01")
	loser := h.member("lg1", "u02")
	if winner.Wins != 1 || winner.Losses != 0 || winner.TotalPoints != 150.5 {
		t.Fatalf("winner standings = %d-%d-%d %.2f, want 1-0-0 150.50", winner.Wins, winner.Losses, winner.Ties, winner.TotalPoints)
	}
	if loser.Losses != 1 || loser.Wins != 0 || loser.TotalPoints != 120.0 {
		t.Fatalf("loser standings = %d-%d-%d %.2f, want 0-1-0 120.00", loser.Wins, loser.Losses, loser.Ties, loser.TotalPoints)
	}

	matchups, err := h.matchupRepo.ListByLeagueAndWeek(ctx, "lg1", 1)
	if err != nil {
		t.Fatalf("list matchups: %v", err)
	}
	if len(matchups) != 1 {
		t.Fatalf("got %d matchups, want 1", len(matchups))
	}
	m := matchups[0]
	if !m.Finalized || !m.PointsApplied {
		t.Fatalf("matchup flags = finalized=%t applied=%t, want both true", m.Finalized, m.PointsApplied)
	}
	if m.WinnerMemberID == nil || *m.WinnerMemberID != winner.ID {
		t.Fatalf("winner = %v, want %s", m.WinnerMemberID, winner.ID)
	}
	if m.HomePoints == nil || m.AwayPoints == nil {
		t.Fatal("point snapshots missing")
	}
}

func TestFinalizeWeekExactTie(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	ctx := context.Background()

	h.submitPoints("lg1", "u01", 1, 150.5)
	h.submitPoints("lg1", "u02", 1, 150.5)

	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
		t.Fatalf("finalize week: %v", err)
	}

	for _, userID := range []string{"u01", "u02"} {
		m := h.member("lg1", userID)
		if m.Ties != 1 || m.Wins != 0 || m.Losses != 0 {
			t.Fatalf("member %s = %d-%d-%d, want 0-0-1", userID, m.Wins, m.Losses, m.Ties)
		}
	}

	matchups, _ := h.matchupRepo.ListByLeagueAndWeek(ctx, "lg1", 1)
	if matchups[0].WinnerMemberID != nil {
		t.Fatalf("tie recorded a winner: %s", *matchups[0].WinnerMemberID)
	}
}

func TestFinalizeWeekBothInactiveTie(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	ctx := context.Background()

	// Nobody synced anything this week.
	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
		t.Fatalf("finalize week: %v", err)
	}

	for _, userID := range []string{"u01", "u02"} {
		m := h.member("lg1", userID)
		if m.Ties != 1 || m.TotalPoints != 0 {
			t.Fatalf("member %s = %d-%d-%d %.2f, want a 0-point tie", userID, m.Wins, m.Losses, m.Ties, m.TotalPoints)
		}
	}
}

func TestFinalizeWeekByeRollsPointsWithoutRecord(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 3)
	ctx := context.Background()

	for _, userID := range []string{"u01", "u02", "u03"} {
		h.submitPoints("lg1", userID, 1, 100)
	}

	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
		t.Fatalf("finalize week: %v", err)
	}

	matchups, _ := h.matchupRepo.ListByLeagueAndWeek(ctx, "lg1", 1)
	var byeMemberID string
	for _, m := range matchups {
		if m.Bye() {
			byeMemberID = m.HomeMemberID
		}
	}
	if byeMemberID == "" {
		t.Fatal("odd roster produced no bye")
	}

	members, _ := h.memberRepo.ListByLeague(ctx, "lg1")
	for _, m := range members {
		if m.ID != byeMemberID {
			continue
		}
		if m.Wins != 0 || m.Losses != 0 || m.Ties != 0 {
			t.Fatalf("bye member has a %d-%d-%d record, want 0-0-0", m.Wins, m.Losses, m.Ties)
		}
		if m.TotalPoints != 100 {
			t.Fatalf("bye member points = %.2f, want 100.00", m.TotalPoints)
		}
	}
}

func TestFinalizeWeekIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	ctx := context.Background()

	h.submitPoints("lg1", "u01", 1, 80)
	h.submitPoints("lg1", "u02", 1, 60)

	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
			t.Fatalf("finalize attempt %d: %v", i+1, err)
		}
	}

	winner := h.member("lg1", "u01")
	if winner.Wins != 1 || winner.TotalPoints != 80 {
		t.Fatalf("repeated finalization double-credited: %d wins, %.2f points", winner.Wins, winner.TotalPoints)
	}
	if got := h.league("lg1").CurrentWeek; got != 2 {
		t.Fatalf("current week = %d, want 2 after repeated calls", got)
	}
}

func TestFinalizeWeekConcurrent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)
	ctx := context.Background()

	for i, userID := range []string{"u01", "u02", "u03", "u04"} {
		h.submitPoints("lg1", userID, 1, float64(50+i*10))
	}
	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}

	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
				t.Errorf("concurrent finalize: %v", err)
			}
		})
	}
	wg.Wait()

	if got := h.league("lg1").CurrentWeek; got != 2 {
		t.Fatalf("current week = %d, want 2", got)
	}
	members, _ := h.memberRepo.ListByLeague(ctx, "lg1")
	games := 0
	for _, m := range members {
		games += m.Wins + m.Losses + m.Ties
	}
	// 2 matchups, each credits both sides exactly once.
	if games != 4 {
		t.Fatalf("total games recorded = %d, want 4", games)
	}
}

func TestFinalizeWeekIgnoresLateScoreWrites(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	ctx := context.Background()

	h.submitPoints("lg1", "u01", 1, 50)
	h.submitPoints("lg1", "u02", 1, 70)

	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
		t.Fatalf("finalize week: %v", err)
	}

	// A late device re-sync raises the loser's week-1 score past the
	// winner's. The recorded result must not move.
	h.submitPoints("lg1", "u01", 1, 500)
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 1); err != nil {
		t.Fatalf("re-finalize week: %v", err)
	}

	m := h.member("lg1", "u01")
	if m.Wins != 0 || m.Losses != 1 || m.TotalPoints != 50 {
		t.Fatalf("late write changed standings: %d-%d-%d %.2f", m.Wins, m.Losses, m.Ties, m.TotalPoints)
	}
	matchups, _ := h.matchupRepo.ListByLeagueAndWeek(ctx, "lg1", 1)
	if *matchups[0].HomePoints+*matchups[0].AwayPoints != 120 {
		t.Fatalf("snapshot points changed: %.2f + %.2f", *matchups[0].HomePoints, *matchups[0].AwayPoints)
	}
}

func TestFinalizeWeekOnlyCurrentWeek(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	ctx := context.Background()

	if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
		t.Fatalf("generate schedule: %v", err)
	}

	// Week 2 is not due; the call is a silent no-op.
	if err := h.weeks.FinalizeWeek(ctx, "lg1", 2); err != nil {
		t.Fatalf("finalize future week: %v", err)
	}
	if got := h.league("lg1").CurrentWeek; got != 1 {
		t.Fatalf("current week = %d, want 1 untouched", got)
	}
}
