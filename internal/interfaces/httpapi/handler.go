package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
	"github.com/fitrivals/fitrivals-api/internal/platform/logging"
	"github.com/fitrivals/fitrivals-api/internal/usecase"
)

type Handler struct {
	leagueService    *usecase.LeagueService
	syncService      *usecase.SyncService
	standingsService *usecase.StandingsService
	orchestrator     *usecase.OrchestratorService
	sweepMaxWorkers  int
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	syncService *usecase.SyncService,
	standingsService *usecase.StandingsService,
	orchestrator *usecase.OrchestratorService,
	sweepMaxWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:    leagueService,
		syncService:      syncService,
		standingsService: standingsService,
		orchestrator:     orchestrator,
		sweepMaxWorkers:  sweepMaxWorkers,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type leagueDTO struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	OwnerUserID      string             `json:"owner_user_id"`
	RosterCap        int                `json:"roster_cap"`
	SeasonWeeks      int                `json:"season_weeks"`
	ScoringConfig    map[string]float64 `json:"scoring_config"`
	StartDate        string             `json:"start_date,omitempty"`
	CurrentWeek      int                `json:"current_week"`
	PlayoffStarted   bool               `json:"playoff_started"`
	ChampionMemberID string             `json:"champion_member_id,omitempty"`
	Active           bool               `json:"active"`
}

type memberDTO struct {
	ID          string  `json:"id"`
	LeagueID    string  `json:"league_id"`
	UserID      string  `json:"user_id"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	TotalPoints float64 `json:"total_points"`
	Seed        *int    `json:"seed,omitempty"`
	Eliminated  bool    `json:"eliminated"`
}

type standingsRowDTO struct {
	Rank        int     `json:"rank"`
	MemberID    string  `json:"member_id"`
	UserID      string  `json:"user_id"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	TotalPoints float64 `json:"total_points"`
	Seed        *int    `json:"seed,omitempty"`
	Eliminated  bool    `json:"eliminated"`
}

type matchupViewDTO struct {
	ID             string  `json:"id"`
	Week           int     `json:"week"`
	Slot           int     `json:"slot"`
	HomeMemberID   string  `json:"home_member_id"`
	AwayMemberID   string  `json:"away_member_id,omitempty"`
	HomeUserID     string  `json:"home_user_id"`
	AwayUserID     string  `json:"away_user_id,omitempty"`
	HomePoints     float64 `json:"home_points"`
	AwayPoints     float64 `json:"away_points"`
	Bye            bool    `json:"bye"`
	Live           bool    `json:"live"`
	Finalized      bool    `json:"finalized"`
	WinnerMemberID string  `json:"winner_member_id,omitempty"`
}

type playoffMatchDTO struct {
	ID             string   `json:"id"`
	Round          string   `json:"round"`
	Slot           int      `json:"slot"`
	HomeMemberID   string   `json:"home_member_id"`
	AwayMemberID   string   `json:"away_member_id"`
	HomeScore      *float64 `json:"home_score,omitempty"`
	AwayScore      *float64 `json:"away_score,omitempty"`
	WinnerMemberID string   `json:"winner_member_id,omitempty"`
	Finalized      bool     `json:"finalized"`
}

type bracketDTO struct {
	Semifinals       []playoffMatchDTO `json:"semifinals"`
	Final            *playoffMatchDTO  `json:"final,omitempty"`
	ChampionMemberID string            `json:"champion_member_id,omitempty"`
}

type weeklyScoreDTO struct {
	LeagueID       string  `json:"league_id"`
	UserID         string  `json:"user_id"`
	Week           int     `json:"week"`
	Steps          float64 `json:"steps"`
	ActiveCalories float64 `json:"active_calories"`
	DistanceKM     float64 `json:"distance_km"`
	SleepMinutes   float64 `json:"sleep_minutes"`
	WorkoutMinutes float64 `json:"workout_minutes"`
	Points         float64 `json:"points"`
}

type dashboardDTO struct {
	League    leagueDTO         `json:"league"`
	Standings []standingsRowDTO `json:"standings"`
	Matchups  []matchupViewDTO  `json:"matchups"`
	Bracket   *bracketDTO       `json:"bracket,omitempty"`
}

func leagueToDTO(v league.League) leagueDTO {
	dto := leagueDTO{
		ID:             v.ID,
		Name:           v.Name,
		OwnerUserID:    v.OwnerUserID,
		RosterCap:      v.RosterCap,
		SeasonWeeks:    v.SeasonWeeks,
		ScoringConfig:  v.ScoringConfig,
		CurrentWeek:    v.CurrentWeek,
		PlayoffStarted: v.PlayoffStarted,
		Active:         v.Active,
	}
	if v.StartDate != nil {
		dto.StartDate = v.StartDate.UTC().Format(time.DateOnly)
	}
	if v.ChampionID != nil {
		dto.ChampionMemberID = *v.ChampionID
	}
	return dto
}

func memberToDTO(v member.Member) memberDTO {
	return memberDTO{
		ID:          v.ID,
		LeagueID:    v.LeagueID,
		UserID:      v.UserID,
		Wins:        v.Wins,
		Losses:      v.Losses,
		Ties:        v.Ties,
		TotalPoints: v.TotalPoints,
		Seed:        v.Seed,
		Eliminated:  v.Eliminated,
	}
}

func standingsRowToDTO(v usecase.StandingsRow) standingsRowDTO {
	return standingsRowDTO{
		Rank:        v.Rank,
		MemberID:    v.MemberID,
		UserID:      v.UserID,
		Wins:        v.Wins,
		Losses:      v.Losses,
		Ties:        v.Ties,
		TotalPoints: v.TotalPoints,
		Seed:        v.Seed,
		Eliminated:  v.Eliminated,
	}
}

func matchupViewToDTO(v usecase.MatchupView) matchupViewDTO {
	dto := matchupViewDTO{
		ID:           v.Matchup.ID,
		Week:         v.Matchup.Week,
		Slot:         v.Matchup.Slot,
		HomeMemberID: v.Matchup.HomeMemberID,
		HomeUserID:   v.HomeUserID,
		AwayUserID:   v.AwayUserID,
		HomePoints:   v.HomePoints,
		AwayPoints:   v.AwayPoints,
		Bye:          v.Matchup.Bye(),
		Live:         v.Live,
		Finalized:    v.Matchup.Finalized,
	}
	if v.Matchup.AwayMemberID != nil {
		dto.AwayMemberID = *v.Matchup.AwayMemberID
	}
	if v.Matchup.WinnerMemberID != nil {
		dto.WinnerMemberID = *v.Matchup.WinnerMemberID
	}
	return dto
}

func playoffMatchToDTO(v playoff.Match) playoffMatchDTO {
	dto := playoffMatchDTO{
		ID:           v.ID,
		Round:        string(v.Round),
		Slot:         v.Slot,
		HomeMemberID: v.HomeMemberID,
		AwayMemberID: v.AwayMemberID,
		HomeScore:    v.HomeScore,
		AwayScore:    v.AwayScore,
		Finalized:    v.Finalized,
	}
	if v.WinnerMemberID != nil {
		dto.WinnerMemberID = *v.WinnerMemberID
	}
	return dto
}

func bracketToDTO(v usecase.BracketView) bracketDTO {
	dto := bracketDTO{
		Semifinals: make([]playoffMatchDTO, 0, len(v.Semifinals)),
	}
	for _, m := range v.Semifinals {
		dto.Semifinals = append(dto.Semifinals, playoffMatchToDTO(m))
	}
	if v.Final != nil {
		final := playoffMatchToDTO(*v.Final)
		dto.Final = &final
	}
	if v.ChampionID != nil {
		dto.ChampionMemberID = *v.ChampionID
	}
	return dto
}

func weeklyScoreToDTO(v weeklyscore.WeeklyScore) weeklyScoreDTO {
	return weeklyScoreDTO{
		LeagueID:       v.LeagueID,
		UserID:         v.UserID,
		Week:           v.Week,
		Steps:          v.Metrics.Steps,
		ActiveCalories: v.Metrics.ActiveCalories,
		DistanceKM:     v.Metrics.DistanceKM,
		SleepMinutes:   v.Metrics.SleepMinutes,
		WorkoutMinutes: v.Metrics.WorkoutMinutes,
		Points:         v.Points,
	}
}
