package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	"github.com/fitrivals/fitrivals-api/internal/platform/logging"
	"github.com/fitrivals/fitrivals-api/internal/platform/resilience"
)

const defaultSweepWorkers = 8

// OrchestratorService is the client-facing entry point of the state
// machine, invoked on every dashboard load. It owns no durable state and
// no locking: it only decides which transitions are due and calls the
// idempotent services that perform them, which is what makes it safe to
// invoke redundantly from any number of concurrent clients. The
// in-process singleflight merely dedupes a single server's burst; it is
// never relied on for correctness.
type OrchestratorService struct {
	leagueRepo  league.Repository
	playoffRepo playoff.Repository
	schedules   *ScheduleService
	weeks       *WeekService
	playoffs    *PlayoffService
	queue       JobQueue
	logger      *logging.Logger
	now         func() time.Time
	flight      resilience.SingleFlight
}

func NewOrchestratorService(
	leagueRepo league.Repository,
	playoffRepo playoff.Repository,
	schedules *ScheduleService,
	weeks *WeekService,
	playoffs *PlayoffService,
	queue JobQueue,
	logger *logging.Logger,
) *OrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &OrchestratorService{
		leagueRepo:  leagueRepo,
		playoffRepo: playoffRepo,
		schedules:   schedules,
		weeks:       weeks,
		playoffs:    playoffs,
		queue:       queue,
		logger:      logger,
		now:         time.Now,
	}
}

// RunOrchestration catches a league up to the canonical clock: finalizes
// every fully-elapsed week in order, generates playoffs once the regular
// season completes, and resolves due playoff matches up to a champion.
func (s *OrchestratorService) RunOrchestration(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.RunOrchestration")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, err, _ := s.flight.Do("orchestrate:"+leagueID, func() (any, error) {
		return nil, s.orchestrateOnce(ctx, leagueID)
	})
	return err
}

func (s *OrchestratorService) orchestrateOnce(ctx context.Context, leagueID string) error {
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !lg.Active || !lg.Started() {
		return nil
	}

	weekIndex := lg.WeekIndex(s.now())
	if weekIndex == 0 {
		return nil
	}

	lg, err = s.catchUpRegularSeason(ctx, lg, weekIndex)
	if err != nil {
		return err
	}

	// Make sure the in-progress week is visible to members.
	if weekIndex <= lg.SeasonWeeks {
		if _, err := s.schedules.GenerateWeekSchedule(ctx, leagueID, weekIndex, nil); err != nil && !errors.Is(err, ErrInsufficientMembers) {
			return err
		}
	}

	if lg.RegularSeasonComplete() && !lg.PlayoffStarted {
		if err := s.playoffs.GeneratePlayoffs(ctx, leagueID); err != nil {
			if errors.Is(err, ErrInsufficientMembers) {
				// Season ends without a bracket; not a failure.
				s.logger.InfoContext(ctx, "skipping playoffs", "league_id", leagueID, "reason", err)
				return nil
			}
			return err
		}
		lg, exists, err = s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil || !exists {
			return fmt.Errorf("reload league after playoff generation: %w", err)
		}
	}

	if lg.PlayoffStarted && lg.ChampionID == nil {
		return s.resolveDuePlayoffMatches(ctx, lg, weekIndex)
	}
	return nil
}

// catchUpRegularSeason finalizes elapsed weeks one at a time, in order,
// re-reading the league between steps so a concurrent caller's progress
// is observed rather than repeated.
func (s *OrchestratorService) catchUpRegularSeason(ctx context.Context, lg league.League, weekIndex int) (league.League, error) {
	for range lg.SeasonWeeks + 1 {
		if !lg.Active || lg.RegularSeasonComplete() {
			return lg, nil
		}
		week := lg.CurrentWeek
		if week >= weekIndex {
			return lg, nil
		}

		if _, err := s.schedules.GenerateWeekSchedule(ctx, lg.ID, week, nil); err != nil {
			if errors.Is(err, ErrInsufficientMembers) {
				s.logger.InfoContext(ctx, "skipping week finalization", "league_id", lg.ID, "week", week, "reason", err)
				return lg, nil
			}
			return lg, err
		}
		if err := s.weeks.FinalizeWeek(ctx, lg.ID, week); err != nil {
			return lg, err
		}

		reloaded, exists, err := s.leagueRepo.GetByID(ctx, lg.ID)
		if err != nil {
			return lg, fmt.Errorf("reload league: %w", err)
		}
		if !exists {
			return lg, fmt.Errorf("%w: league=%s", ErrNotFound, lg.ID)
		}
		if reloaded.CurrentWeek == week {
			// Nothing newly finalized, so the pointer did not move.
			// Stop rather than spin.
			return reloaded, nil
		}
		lg = reloaded
	}
	return lg, nil
}

func (s *OrchestratorService) resolveDuePlayoffMatches(ctx context.Context, lg league.League, weekIndex int) error {
	// A round resolves only after its calendar week has fully elapsed.
	for _, round := range []playoff.Round{playoff.RoundSemifinal, playoff.RoundFinal} {
		if weekIndex <= playoffRoundWeek(lg.SeasonWeeks, round) {
			return nil
		}
		matches, err := s.playoffRepo.ListByLeague(ctx, lg.ID)
		if err != nil {
			return fmt.Errorf("list playoff matches: %w", err)
		}
		for _, m := range matches {
			if m.Round != round || m.Finalized {
				continue
			}
			if err := s.playoffs.FinalizePlayoffMatch(ctx, m.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// SweepResult summarizes one orchestration sweep across active leagues.
type SweepResult struct {
	LeagueCount  int `json:"league_count"`
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
	WorkerCount  int `json:"worker_count"`
}

// RunOrchestrationSweep orchestrates every active league on a worker
// pool. The external scheduler calls this periodically; it is redundant
// with per-dashboard triggering by design.
func (s *OrchestratorService) RunOrchestrationSweep(ctx context.Context, maxWorkers int) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.RunOrchestrationSweep")
	defer span.End()

	leagues, err := s.leagueRepo.ListActive(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list active leagues: %w", err)
	}

	workers := maxWorkers
	if workers < 1 {
		workers = defaultSweepWorkers
	}
	if workers > len(leagues) && len(leagues) > 0 {
		workers = len(leagues)
	}

	result := SweepResult{LeagueCount: len(leagues), WorkerCount: workers}
	if len(leagues) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return result, fmt.Errorf("create sweep pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var succeeded, failed atomic.Int64
	for _, lg := range leagues {
		leagueID := lg.ID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.RunOrchestration(ctx, leagueID); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "sweep orchestration failed", "league_id", leagueID, "error", err)
				return
			}
			succeeded.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			s.logger.WarnContext(ctx, "sweep submit failed", "league_id", leagueID, "error", submitErr)
		}
	}
	wg.Wait()

	result.SuccessCount = int(succeeded.Load())
	result.FailedCount = int(failed.Load())

	s.scheduleNextSweep(ctx)
	return result, nil
}

// scheduleNextSweep enqueues the follow-up sweep for the next week
// rollover. Deduplication buckets the target time by week, so a sweep
// triggered from several replicas publishes the job once. Failures are
// logged only; dashboard-driven orchestration covers the gap.
func (s *OrchestratorService) scheduleNextSweep(ctx context.Context) {
	now := s.now()
	next := league.NextMonday(now)
	delay := next.Sub(now)
	dedupID := dedupKey("orchestrate-sweep", "all", next, 7*24*time.Hour)
	if err := s.queue.Enqueue(ctx, "/v1/internal/jobs/orchestrate", nil, delay, dedupID); err != nil {
		s.logger.WarnContext(ctx, "enqueue next orchestration sweep failed", "deduplication_id", dedupID, "error", err)
	}
}
