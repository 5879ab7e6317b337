package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
)

func newSyncService(h *harness) *SyncService {
	return NewSyncService(h.leagueRepo, h.memberRepo, h.scoreRepo)
}

func TestSubmitWeeklyMetricsScoresAndStores(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	svc := newSyncService(h)
	ctx := context.Background()

	metrics := scoring.Metrics{
		Steps:          70000,
		ActiveCalories: 3500,
		DistanceKM:     42,
		SleepMinutes:   2940,
		WorkoutMinutes: 300,
	}
	ws, err := svc.SubmitWeeklyMetrics(ctx, "lg1", "u01", 1, metrics)
	if err != nil {
		t.Fatalf("submit metrics: %v", err)
	}
	if ws.Points != 404.0 {
		t.Fatalf("points = %.2f, want 404.00 under default weights", ws.Points)
	}

	stored, found, err := h.scoreRepo.Get(ctx, "lg1", "u01", 1)
	if err != nil || !found {
		t.Fatalf("stored score missing: found=%t err=%v", found, err)
	}
	if stored.Points != ws.Points || stored.Metrics != metrics {
		t.Fatalf("stored = %+v, want the submitted record", stored)
	}
}

func TestSubmitWeeklyMetricsReplacesPriorSync(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	svc := newSyncService(h)
	ctx := context.Background()

	if _, err := svc.SubmitWeeklyMetrics(ctx, "lg1", "u01", 1, scoring.Metrics{Steps: 10000}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	ws, err := svc.SubmitWeeklyMetrics(ctx, "lg1", "u01", 1, scoring.Metrics{Steps: 50000})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if ws.Points != 50.0 {
		t.Fatalf("points = %.2f, want 50.00", ws.Points)
	}

	stored, _, _ := h.scoreRepo.Get(ctx, "lg1", "u01", 1)
	if stored.Points != 50.0 {
		t.Fatalf("stored points = %.2f, re-sync did not replace", stored.Points)
	}
}

func TestSubmitWeeklyMetricsUsesFrozenConfig(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	// The live config was changed after the season started; scoring
	// must keep using the frozen copy.
	start := testMonday
	err := h.leagueRepo.Create(ctx, league.League{
		ID:            "lg1",
		Name:          "x",
		OwnerUserID:   "u01",
		RosterCap:     4,
		SeasonWeeks:   4,
		ScoringConfig: scoring.Config{scoring.MetricSteps: 1.0},
		FrozenConfig:  scoring.Config{scoring.MetricSteps: 0.01},
		StartDate:     &start,
		CurrentWeek:   1,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if _, err := h.memberRepo.Join(ctx, member.Member{ID: "lg1-m01", LeagueID: "lg1", UserID: "u01"}); err != nil {
		t.Fatalf("join member: %v", err)
	}

	ws, err := newSyncService(h).SubmitWeeklyMetrics(ctx, "lg1", "u01", 1, scoring.Metrics{Steps: 10000})
	if err != nil {
		t.Fatalf("submit metrics: %v", err)
	}
	if ws.Points != 100.0 {
		t.Fatalf("points = %.2f, want 100.00 from the frozen weight", ws.Points)
	}
}

func TestSubmitWeeklyMetricsGuards(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 2)
	svc := newSyncService(h)
	ctx := context.Background()

	if _, err := svc.SubmitWeeklyMetrics(ctx, "nope", "u01", 1, scoring.Metrics{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown league err = %v, want ErrNotFound", err)
	}
	if _, err := svc.SubmitWeeklyMetrics(ctx, "lg1", "u99", 1, scoring.Metrics{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-member err = %v, want ErrNotFound", err)
	}
	// Weeks run 1..SeasonWeeks+2; the playoff weeks still accept syncs.
	if _, err := svc.SubmitWeeklyMetrics(ctx, "lg1", "u01", 7, scoring.Metrics{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("out-of-range week err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.SubmitWeeklyMetrics(ctx, "lg1", "u01", 6, scoring.Metrics{Steps: 1000}); err != nil {
		t.Fatalf("final-week sync: %v", err)
	}
}

func TestSubmitWeeklyMetricsRequiresStartedLeague(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()

	err := h.leagueRepo.Create(ctx, league.League{
		ID:            "lg1",
		Name:          "x",
		OwnerUserID:   "u01",
		RosterCap:     4,
		SeasonWeeks:   4,
		ScoringConfig: scoring.DefaultConfig(),
		CurrentWeek:   1,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if _, err := h.memberRepo.Join(ctx, member.Member{ID: "lg1-m01", LeagueID: "lg1", UserID: "u01"}); err != nil {
		t.Fatalf("join member: %v", err)
	}

	_, err = newSyncService(h).SubmitWeeklyMetrics(ctx, "lg1", "u01", 1, scoring.Metrics{Steps: 1000})
	if !errors.Is(err, ErrLeagueNotStarted) {
		t.Fatalf("pre-start sync err = %v, want ErrLeagueNotStarted", err)
	}
}
