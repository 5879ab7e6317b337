package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
	"github.com/fitrivals/fitrivals-api/internal/infrastructure/repository/memory"
	"github.com/fitrivals/fitrivals-api/internal/platform/cache"
	"github.com/fitrivals/fitrivals-api/internal/platform/logging"
)

// testMonday is a fixed Monday 00:00 UTC used as the league start.
var testMonday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

type harness struct {
	t *testing.T

	store       *memory.Store
	leagueRepo  *memory.LeagueRepository
	memberRepo  *memory.MemberRepository
	scoreRepo   *memory.WeeklyScoreRepository
	matchupRepo *memory.MatchupRepository
	playoffRepo *memory.PlayoffRepository

	schedules *ScheduleService
	weeks     *WeekService
	playoffs  *PlayoffService
	orch      *OrchestratorService
	standings *StandingsService

	now time.Time
}

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("id%04d", g.n), nil
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{
		t:           t,
		store:       store,
		leagueRepo:  memory.NewLeagueRepository(store),
		memberRepo:  memory.NewMemberRepository(store),
		scoreRepo:   memory.NewWeeklyScoreRepository(store),
		matchupRepo: memory.NewMatchupRepository(store),
		playoffRepo: memory.NewPlayoffRepository(store),
		now:         testMonday,
	}

	ids := &seqIDs{}
	h.schedules = NewScheduleService(store, ids)
	h.weeks = NewWeekService(store)
	h.weeks.now = func() time.Time { return h.now }
	h.playoffs = NewPlayoffService(store, h.leagueRepo, h.playoffRepo, ids)
	h.orch = NewOrchestratorService(h.leagueRepo, h.playoffRepo, h.schedules, h.weeks, h.playoffs, nil, logging.NewNop())
	h.orch.now = func() time.Time { return h.now }
	h.standings = NewStandingsService(h.leagueRepo, h.memberRepo, h.matchupRepo, h.playoffRepo, h.scoreRepo, cache.NewStore(time.Minute))

	return h
}

// seedLeague creates a started league with the given number of members.
// Member IDs are m01..mNN, user IDs u01..uNN.
func (h *harness) seedLeague(leagueID string, seasonWeeks, memberCount int) {
	h.t.Helper()
	ctx := context.Background()

	start := testMonday
	lg := league.League{
		ID:            leagueID,
		Name:          "Test League " + leagueID,
		OwnerUserID:   "u01",
		RosterCap:     14,
		SeasonWeeks:   seasonWeeks,
		ScoringConfig: scoring.DefaultConfig(),
		FrozenConfig:  scoring.DefaultConfig(),
		StartDate:     &start,
		CurrentWeek:   1,
		Active:        true,
	}
	if err := h.leagueRepo.Create(ctx, lg); err != nil {
		h.t.Fatalf("create league: %v", err)
	}

	for i := 1; i <= memberCount; i++ {
		m := member.Member{
			ID:       fmt.Sprintf("%s-m%02d", leagueID, i),
			LeagueID: leagueID,
			UserID:   fmt.Sprintf("u%02d", i),
		}
		if _, err := h.memberRepo.Join(ctx, m); err != nil {
			h.t.Fatalf("join member %s: %v", m.ID, err)
		}
	}
}

// advanceClock moves the harness clock n weeks past the league start.
func (h *harness) advanceClock(weeks int) {
	h.now = testMonday.Add(time.Duration(weeks) * 7 * 24 * time.Hour)
}

// submitPoints records a pre-scored weekly total for (user, week).
func (h *harness) submitPoints(leagueID, userID string, week int, points float64) {
	h.t.Helper()
	err := h.scoreRepo.Upsert(context.Background(), weeklyscore.WeeklyScore{
		LeagueID: leagueID,
		UserID:   userID,
		Week:     week,
		Points:   points,
	})
	if err != nil {
		h.t.Fatalf("upsert weekly score: %v", err)
	}
}

func (h *harness) member(leagueID, userID string) member.Member {
	h.t.Helper()
	m, found, err := h.memberRepo.GetByUser(context.Background(), leagueID, userID)
	if err != nil {
		h.t.Fatalf("get member %s: %v", userID, err)
	}
	if !found {
		h.t.Fatalf("member for user %s not found", userID)
	}
	return m
}

func (h *harness) league(leagueID string) league.League {
	h.t.Helper()
	lg, found, err := h.leagueRepo.GetByID(context.Background(), leagueID)
	if err != nil {
		h.t.Fatalf("get league: %v", err)
	}
	if !found {
		h.t.Fatalf("league %s not found", leagueID)
	}
	return lg
}

// playWeeks schedules and finalizes weeks 1..weeks with the given
// per-user points repeated each week.
func (h *harness) playWeeks(leagueID string, weeks int, pointsByUser map[string]float64) {
	h.t.Helper()
	ctx := context.Background()
	for week := 1; week <= weeks; week++ {
		for userID, pts := range pointsByUser {
			h.submitPoints(leagueID, userID, week, pts)
		}
		if _, err := h.schedules.GenerateWeekSchedule(ctx, leagueID, week, nil); err != nil {
			h.t.Fatalf("generate week %d: %v", week, err)
		}
		if err := h.weeks.FinalizeWeek(ctx, leagueID, week); err != nil {
			h.t.Fatalf("finalize week %d: %v", week, err)
		}
	}
}
