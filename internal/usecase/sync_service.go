package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
)

// SyncService ingests health-metric snapshots and converts them into
// weekly scores using the league's effective scoring config.
type SyncService struct {
	leagueRepo league.Repository
	memberRepo member.Repository
	scoreRepo  weeklyscore.Repository
}

func NewSyncService(leagueRepo league.Repository, memberRepo member.Repository, scoreRepo weeklyscore.Repository) *SyncService {
	return &SyncService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		scoreRepo:  scoreRepo,
	}
}

// SubmitWeeklyMetrics upserts the member's metric totals for the given
// week. Re-submitting replaces the previous snapshot wholesale; scoring
// always recomputes from the submitted metrics, so a device re-sync with
// higher totals simply raises the score. Writes to weeks whose matchups
// have already been finalized are accepted but have no effect on recorded
// results, since finalization snapshots point totals.
func (s *SyncService) SubmitWeeklyMetrics(ctx context.Context, leagueID, userID string, week int, metrics scoring.Metrics) (weeklyscore.WeeklyScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SubmitWeeklyMetrics")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !lg.Started() {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: league=%s", ErrLeagueNotStarted, leagueID)
	}
	// Playoff rounds occupy the two weeks after the regular season.
	if week < 1 || week > lg.SeasonWeeks+2 {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: week %d outside [1, %d]", ErrInvalidInput, week, lg.SeasonWeeks+2)
	}

	if _, found, err := s.memberRepo.GetByUser(ctx, leagueID, userID); err != nil {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("get member: %w", err)
	} else if !found {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: user=%s is not a member of league=%s", ErrNotFound, userID, leagueID)
	}

	ws := weeklyscore.WeeklyScore{
		LeagueID: leagueID,
		UserID:   userID,
		Week:     week,
		Metrics:  metrics,
		Points:   scoring.Score(metrics, lg.EffectiveScoringConfig()),
	}
	if err := ws.Validate(); err != nil {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.scoreRepo.Upsert(ctx, ws); err != nil {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("upsert weekly score: %w", err)
	}
	return ws, nil
}
