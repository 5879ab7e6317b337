package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
	"github.com/fitrivals/fitrivals-api/internal/platform/cache"
)

// StandingsService serves the league read surface: standings table,
// current-week matchups with live scores, and the playoff bracket.
// Responses are cached briefly; the cache is invalidated after every
// orchestration pass.
type StandingsService struct {
	leagueRepo  league.Repository
	memberRepo  member.Repository
	matchupRepo matchup.Repository
	playoffRepo playoff.Repository
	scoreRepo   weeklyscore.Repository
	cache       *cache.Store
}

func NewStandingsService(
	leagueRepo league.Repository,
	memberRepo member.Repository,
	matchupRepo matchup.Repository,
	playoffRepo playoff.Repository,
	scoreRepo weeklyscore.Repository,
	cacheStore *cache.Store,
) *StandingsService {
	return &StandingsService{
		leagueRepo:  leagueRepo,
		memberRepo:  memberRepo,
		matchupRepo: matchupRepo,
		playoffRepo: playoffRepo,
		scoreRepo:   scoreRepo,
		cache:       cacheStore,
	}
}

// StandingsRow is one member's line in the standings table.
type StandingsRow struct {
	Rank        int
	MemberID    string
	UserID      string
	Wins        int
	Losses      int
	Ties        int
	TotalPoints float64
	Seed        *int
	Eliminated  bool
}

// MatchupView is a matchup with the points visible right now: recorded
// snapshots when finalized, otherwise live weekly-score totals.
type MatchupView struct {
	Matchup    matchup.Matchup
	HomeUserID string
	AwayUserID string
	HomePoints float64
	AwayPoints float64
	Live       bool
}

// BracketView is the playoff bracket plus the champion once crowned.
type BracketView struct {
	Semifinals []playoff.Match
	Final      *playoff.Match
	ChampionID *string
}

func (s *StandingsService) Standings(ctx context.Context, leagueID string) ([]StandingsRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	value, err := s.cache.GetOrLoad(ctx, leagueCacheKey(leagueID, "standings"), func(ctx context.Context) (any, error) {
		return s.loadStandings(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	rows, ok := value.([]StandingsRow)
	if !ok {
		return nil, fmt.Errorf("unexpected standings cache payload %T", value)
	}
	return rows, nil
}

func (s *StandingsService) loadStandings(ctx context.Context, leagueID string) ([]StandingsRow, error) {
	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	members, err := s.memberRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].Wins != members[j].Wins {
			return members[i].Wins > members[j].Wins
		}
		if members[i].TotalPoints != members[j].TotalPoints {
			return members[i].TotalPoints > members[j].TotalPoints
		}
		return members[i].ID < members[j].ID
	})

	rows := make([]StandingsRow, 0, len(members))
	for i, m := range members {
		rows = append(rows, StandingsRow{
			Rank:        i + 1,
			MemberID:    m.ID,
			UserID:      m.UserID,
			Wins:        m.Wins,
			Losses:      m.Losses,
			Ties:        m.Ties,
			TotalPoints: m.TotalPoints,
			Seed:        m.Seed,
			Eliminated:  m.Eliminated,
		})
	}
	return rows, nil
}

// CurrentMatchups returns the matchups of the league's in-progress week.
// For an already complete regular season it returns the last week played.
func (s *StandingsService) CurrentMatchups(ctx context.Context, leagueID string) ([]MatchupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.CurrentMatchups")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	value, err := s.cache.GetOrLoad(ctx, leagueCacheKey(leagueID, "matchups"), func(ctx context.Context) (any, error) {
		return s.loadCurrentMatchups(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	views, ok := value.([]MatchupView)
	if !ok {
		return nil, fmt.Errorf("unexpected matchups cache payload %T", value)
	}
	return views, nil
}

func (s *StandingsService) loadCurrentMatchups(ctx context.Context, leagueID string) ([]MatchupView, error) {
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	week := lg.CurrentWeek
	if week > lg.SeasonWeeks {
		week = lg.SeasonWeeks
	}

	matchups, err := s.matchupRepo.ListByLeagueAndWeek(ctx, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("list matchups: %w", err)
	}

	members, err := s.memberRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	userByMember := make(map[string]string, len(members))
	for _, m := range members {
		userByMember[m.ID] = m.UserID
	}

	scores, err := s.scoreRepo.ListByLeagueAndWeek(ctx, leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("list weekly scores: %w", err)
	}
	pointsByUser := make(map[string]float64, len(scores))
	for _, ws := range scores {
		pointsByUser[ws.UserID] = ws.Points
	}

	views := make([]MatchupView, 0, len(matchups))
	for _, mu := range matchups {
		view := MatchupView{
			Matchup:    mu,
			HomeUserID: userByMember[mu.HomeMemberID],
		}
		if mu.AwayMemberID != nil {
			view.AwayUserID = userByMember[*mu.AwayMemberID]
		}

		if mu.Finalized {
			if mu.HomePoints != nil {
				view.HomePoints = *mu.HomePoints
			}
			if mu.AwayPoints != nil {
				view.AwayPoints = *mu.AwayPoints
			}
		} else {
			view.Live = true
			view.HomePoints = pointsByUser[view.HomeUserID]
			if mu.AwayMemberID != nil {
				view.AwayPoints = pointsByUser[view.AwayUserID]
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *StandingsService) Bracket(ctx context.Context, leagueID string) (BracketView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Bracket")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return BracketView{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	value, err := s.cache.GetOrLoad(ctx, leagueCacheKey(leagueID, "bracket"), func(ctx context.Context) (any, error) {
		return s.loadBracket(ctx, leagueID)
	})
	if err != nil {
		return BracketView{}, err
	}
	view, ok := value.(BracketView)
	if !ok {
		return BracketView{}, fmt.Errorf("unexpected bracket cache payload %T", value)
	}
	return view, nil
}

func (s *StandingsService) loadBracket(ctx context.Context, leagueID string) (BracketView, error) {
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return BracketView{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return BracketView{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	matches, err := s.playoffRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return BracketView{}, fmt.Errorf("list playoff matches: %w", err)
	}

	view := BracketView{ChampionID: lg.ChampionID}
	for i := range matches {
		switch matches[i].Round {
		case playoff.RoundSemifinal:
			view.Semifinals = append(view.Semifinals, matches[i])
		case playoff.RoundFinal:
			final := matches[i]
			view.Final = &final
		}
	}
	sort.Slice(view.Semifinals, func(i, j int) bool {
		return view.Semifinals[i].Slot < view.Semifinals[j].Slot
	})
	return view, nil
}

// Invalidate drops the league's cached read models. Called after state
// transitions so the next read reflects the new standings.
func (s *StandingsService) Invalidate(ctx context.Context, leagueID string) {
	s.cache.DeletePrefix(ctx, leagueCacheKey(leagueID, ""))
}

func leagueCacheKey(leagueID, view string) string {
	return "league:" + leagueID + ":" + view
}
