package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	"github.com/fitrivals/fitrivals-api/internal/platform/id"
	"github.com/fitrivals/fitrivals-api/internal/platform/logging"
)

const (
	minSeasonWeeks     = 1
	maxSeasonWeeks     = 26
	defaultSeasonWeeks = 10
	defaultRosterCap   = 8
)

// LeagueService handles the league lifecycle up to the point the
// competition state machine takes over: create, join, start.
type LeagueService struct {
	leagueRepo league.Repository
	memberRepo member.Repository
	ids        id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, memberRepo member.Repository, ids id.Generator, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LeagueService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		ids:        ids,
		logger:     logger,
		now:        time.Now,
	}
}

type CreateLeagueInput struct {
	Name        string
	OwnerUserID string
	RosterCap   int
	SeasonWeeks int
	Config      scoring.Config
}

// CreateLeague creates an empty league and joins the owner as its first
// member. The scoring config stays live (mutable) until the season
// starts, when a frozen copy is captured.
func (s *LeagueService) CreateLeague(ctx context.Context, in CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.OwnerUserID = strings.TrimSpace(in.OwnerUserID)
	if in.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if in.OwnerUserID == "" {
		return league.League{}, fmt.Errorf("%w: owner user id is required", ErrInvalidInput)
	}
	if in.RosterCap == 0 {
		in.RosterCap = defaultRosterCap
	}
	if in.SeasonWeeks == 0 {
		in.SeasonWeeks = defaultSeasonWeeks
	}
	if in.SeasonWeeks < minSeasonWeeks || in.SeasonWeeks > maxSeasonWeeks {
		return league.League{}, fmt.Errorf("%w: season length %d outside [%d, %d] weeks", ErrInvalidInput, in.SeasonWeeks, minSeasonWeeks, maxSeasonWeeks)
	}
	cfg, err := normalizeScoringConfig(in.Config)
	if err != nil {
		return league.League{}, err
	}

	leagueID, err := s.ids.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("new league id: %w", err)
	}

	lg := league.League{
		ID:            leagueID,
		Name:          in.Name,
		OwnerUserID:   in.OwnerUserID,
		RosterCap:     in.RosterCap,
		SeasonWeeks:   in.SeasonWeeks,
		ScoringConfig: cfg,
		CurrentWeek:   1,
		Active:        true,
	}
	if err := lg.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, lg); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	if _, err := s.JoinLeague(ctx, leagueID, in.OwnerUserID); err != nil {
		return league.League{}, fmt.Errorf("join owner to league: %w", err)
	}

	s.logger.InfoContext(ctx, "league created", "league_id", leagueID, "roster_cap", lg.RosterCap, "season_weeks", lg.SeasonWeeks)
	return lg, nil
}

// JoinLeague adds the user to the roster. Joining twice is a no-op.
// When the roster reaches capacity the season starts automatically.
func (s *LeagueService) JoinLeague(ctx context.Context, leagueID, userID string) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return member.Member{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return member.Member{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return member.Member{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if lg.Started() {
		return member.Member{}, fmt.Errorf("%w: roster is locked after the season starts", ErrInvalidInput)
	}

	if existing, found, err := s.memberRepo.GetByUser(ctx, leagueID, userID); err != nil {
		return member.Member{}, fmt.Errorf("get member: %w", err)
	} else if found {
		return existing, nil
	}

	count, err := s.memberRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return member.Member{}, fmt.Errorf("count members: %w", err)
	}
	if count >= lg.RosterCap {
		return member.Member{}, fmt.Errorf("%w: league=%s cap=%d", ErrLeagueFull, leagueID, lg.RosterCap)
	}

	memberID, err := s.ids.NewID()
	if err != nil {
		return member.Member{}, fmt.Errorf("new member id: %w", err)
	}
	m := member.Member{ID: memberID, LeagueID: leagueID, UserID: userID}
	if err := m.Validate(); err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	inserted, err := s.memberRepo.Join(ctx, m)
	if err != nil {
		return member.Member{}, fmt.Errorf("join league: %w", err)
	}
	if !inserted {
		// Lost a race with a concurrent identical join; fetch theirs.
		existing, _, err := s.memberRepo.GetByUser(ctx, leagueID, userID)
		if err != nil {
			return member.Member{}, fmt.Errorf("get member after join race: %w", err)
		}
		return existing, nil
	}

	if count+1 >= lg.RosterCap {
		if err := s.startLeague(ctx, lg); err != nil {
			s.logger.WarnContext(ctx, "auto-start after full roster failed", "league_id", leagueID, "error", err)
		}
	}

	return m, nil
}

// StartLeague force-starts the season before the roster is full. Only
// the league owner may do this.
func (s *LeagueService) StartLeague(ctx context.Context, leagueID, requesterUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.StartLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if lg.OwnerUserID != strings.TrimSpace(requesterUserID) {
		return fmt.Errorf("%w: only the league owner can start the season", ErrUnauthorized)
	}

	count, err := s.memberRepo.CountByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count < 2 {
		return fmt.Errorf("%w: league=%s has %d members, need at least 2", ErrInsufficientMembers, leagueID, count)
	}

	return s.startLeague(ctx, lg)
}

// startLeague assigns the start date (next Monday UTC) and freezes the
// scoring config. The repository applies it once; later calls are no-ops.
func (s *LeagueService) startLeague(ctx context.Context, lg league.League) error {
	if lg.Started() {
		return nil
	}
	startDate := league.NextMonday(s.now())
	frozen := lg.ScoringConfig.Clone()
	if frozen == nil {
		frozen = scoring.DefaultConfig()
	}

	started, err := s.leagueRepo.Start(ctx, lg.ID, startDate, frozen)
	if err != nil {
		return fmt.Errorf("start league: %w", err)
	}
	if started {
		s.logger.InfoContext(ctx, "league season started", "league_id", lg.ID, "start_date", startDate.Format(time.DateOnly))
	}
	return nil
}

// UpdateScoringConfig replaces the live weight map. After the season
// starts, scoring keeps using the frozen copy, so this only affects
// pre-season score previews.
func (s *LeagueService) UpdateScoringConfig(ctx context.Context, leagueID, requesterUserID string, cfg scoring.Config) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UpdateScoringConfig")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	normalized, err := normalizeScoringConfig(cfg)
	if err != nil {
		return err
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if lg.OwnerUserID != strings.TrimSpace(requesterUserID) {
		return fmt.Errorf("%w: only the league owner can change scoring", ErrUnauthorized)
	}

	if err := s.leagueRepo.UpdateScoringConfig(ctx, leagueID, normalized); err != nil {
		return fmt.Errorf("update scoring config: %w", err)
	}
	return nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return lg, nil
}

func normalizeScoringConfig(cfg scoring.Config) (scoring.Config, error) {
	if cfg == nil {
		return scoring.DefaultConfig(), nil
	}
	out := make(scoring.Config, len(cfg))
	for key, weight := range cfg {
		if !scoring.ValidConfigKey(key) {
			return nil, fmt.Errorf("%w: unknown scoring metric %q", ErrInvalidInput, key)
		}
		if weight < 0 {
			return nil, fmt.Errorf("%w: weight for %q cannot be negative", ErrInvalidInput, key)
		}
		out[key] = weight
	}
	return out, nil
}
