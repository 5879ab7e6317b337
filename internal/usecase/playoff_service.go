package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fitrivals/fitrivals-api/internal/domain/competition"
	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	"github.com/fitrivals/fitrivals-api/internal/platform/id"
)

// playoffSeeds is fixed regardless of roster size: a 14-member league
// still seeds only the top 4 into the bracket.
const playoffSeeds = 4

// PlayoffService seeds the bracket and resolves its matches.
type PlayoffService struct {
	store       competition.Store
	leagueRepo  league.Repository
	playoffRepo playoff.Repository
	ids         id.Generator
}

func NewPlayoffService(store competition.Store, leagueRepo league.Repository, playoffRepo playoff.Repository, ids id.Generator) *PlayoffService {
	return &PlayoffService{
		store:       store,
		leagueRepo:  leagueRepo,
		playoffRepo: playoffRepo,
		ids:         ids,
	}
}

// GeneratePlayoffs seeds the top 4 of the standings into two semifinals
// (1v4, 2v3) and freezes each seeded member's tiebreaker snapshot.
// Redundantly callable: exactly one bracket ever exists per league.
func (s *PlayoffService) GeneratePlayoffs(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffService.GeneratePlayoffs")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	// Lock-free fast path. The same condition is re-checked under the
	// lock; this only spares redundant callers the lock wait.
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if lg.PlayoffStarted {
		return nil
	}
	if existing, err := s.playoffRepo.ListByLeague(ctx, leagueID); err == nil && len(existing) > 0 {
		return nil
	}

	return s.store.Exec(ctx, func(tx competition.Tx) error {
		if err := tx.AcquireLock(ctx, competition.PlayoffLockKey(leagueID)); err != nil {
			return fmt.Errorf("acquire playoff lock: %w", err)
		}

		// Double-checked: close the race between the unlocked fast
		// check and lock acquisition.
		lg, exists, err := tx.GetLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if lg.PlayoffStarted {
			return nil
		}
		existing, err := tx.CountPlayoffMatches(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("count playoff matches: %w", err)
		}
		if existing > 0 {
			return nil
		}

		members, err := tx.ListMembers(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if len(members) < playoffSeeds {
			return fmt.Errorf("%w: league=%s has %d members, playoffs need %d", ErrInsufficientMembers, leagueID, len(members), playoffSeeds)
		}

		seeded := rankForSeeding(members)[:playoffSeeds]
		for i, m := range seeded {
			if err := tx.SeedMember(ctx, m.ID, i+1, m.TotalPoints); err != nil {
				return fmt.Errorf("seed member %s: %w", m.ID, err)
			}
		}

		semis := []playoff.Match{
			{LeagueID: leagueID, Round: playoff.RoundSemifinal, Slot: 1, HomeMemberID: seeded[0].ID, AwayMemberID: seeded[3].ID},
			{LeagueID: leagueID, Round: playoff.RoundSemifinal, Slot: 2, HomeMemberID: seeded[1].ID, AwayMemberID: seeded[2].ID},
		}
		for _, semi := range semis {
			matchID, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("new playoff match id: %w", err)
			}
			semi.ID = matchID
			if err := semi.Validate(); err != nil {
				return fmt.Errorf("invalid semifinal: %w", err)
			}
			// Insert-if-absent is the last-resort safety net beneath
			// the advisory lock; a lost race is not an error.
			if _, err := tx.InsertPlayoffMatch(ctx, semi); err != nil {
				return fmt.Errorf("insert semifinal slot %d: %w", semi.Slot, err)
			}
		}

		if err := tx.SetPlayoffStarted(ctx, leagueID); err != nil {
			return fmt.Errorf("set playoffs started: %w", err)
		}
		return nil
	})
}

// FinalizePlayoffMatch resolves one bracket node: compares the sides'
// playoff-round scores, breaks exact ties with the frozen tiebreaker
// snapshots (never live points), advances the winner, and crowns the
// champion when the final completes. Redundantly callable.
func (s *PlayoffService) FinalizePlayoffMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffService.FinalizePlayoffMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	// Lock-free finalized guard.
	if m, exists, err := s.playoffRepo.GetByID(ctx, matchID); err == nil && exists && m.Finalized {
		return nil
	}

	return s.store.Exec(ctx, func(tx competition.Tx) error {
		if err := tx.AcquireLock(ctx, competition.MatchLockKey(matchID)); err != nil {
			return fmt.Errorf("acquire match lock: %w", err)
		}

		m, exists, err := tx.GetPlayoffMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get playoff match: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: playoff match=%s", ErrNotFound, matchID)
		}
		if m.Finalized {
			return nil
		}

		lg, exists, err := tx.GetLeague(ctx, m.LeagueID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, m.LeagueID)
		}

		members, err := tx.ListMembers(ctx, m.LeagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		byID := make(map[string]member.Member, len(members))
		for _, mem := range members {
			byID[mem.ID] = mem
		}

		week := playoffRoundWeek(lg.SeasonWeeks, m.Round)
		homeScore, err := roundScore(ctx, tx, m.LeagueID, byID[m.HomeMemberID].UserID, week)
		if err != nil {
			return err
		}
		awayScore, err := roundScore(ctx, tx, m.LeagueID, byID[m.AwayMemberID].UserID, week)
		if err != nil {
			return err
		}

		winnerID := pickWinner(m, homeScore, awayScore, byID)
		loserID := m.AwayMemberID
		if winnerID == m.AwayMemberID {
			loserID = m.HomeMemberID
		}

		if err := tx.FinalizePlayoffMatch(ctx, m.ID, homeScore, awayScore, winnerID); err != nil {
			return fmt.Errorf("finalize playoff match: %w", err)
		}
		if err := tx.EliminateMember(ctx, loserID); err != nil {
			return fmt.Errorf("eliminate member %s: %w", loserID, err)
		}

		switch m.Round {
		case playoff.RoundSemifinal:
			return s.maybeCreateFinal(ctx, tx, m, winnerID)
		case playoff.RoundFinal:
			if err := tx.SetChampion(ctx, m.LeagueID, winnerID); err != nil {
				return fmt.Errorf("set champion: %w", err)
			}
		}
		return nil
	})
}

// maybeCreateFinal creates the final exactly once, when the other
// semifinal has also resolved.
func (s *PlayoffService) maybeCreateFinal(ctx context.Context, tx competition.Tx, resolved playoff.Match, winnerID string) error {
	matches, err := tx.ListPlayoffMatches(ctx, resolved.LeagueID)
	if err != nil {
		return fmt.Errorf("list playoff matches: %w", err)
	}

	var otherWinner string
	for _, m := range matches {
		if m.Round != playoff.RoundSemifinal || m.ID == resolved.ID {
			continue
		}
		if !m.Finalized || m.WinnerMemberID == nil {
			return nil
		}
		otherWinner = *m.WinnerMemberID
	}
	if otherWinner == "" {
		return nil
	}

	// Seed-1's side of the bracket hosts the final.
	home, away := winnerID, otherWinner
	if resolved.Slot != 1 {
		home, away = otherWinner, winnerID
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("new final match id: %w", err)
	}
	final := playoff.Match{
		ID:           matchID,
		LeagueID:     resolved.LeagueID,
		Round:        playoff.RoundFinal,
		Slot:         1,
		HomeMemberID: home,
		AwayMemberID: away,
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("invalid final: %w", err)
	}
	if _, err := tx.InsertPlayoffMatch(ctx, final); err != nil {
		return fmt.Errorf("insert final: %w", err)
	}
	return nil
}

// pickWinner applies the resolution order: round score, then frozen
// tiebreaker snapshot, then lowest member ID as the deterministic
// (and documented arbitrary) last resort.
func pickWinner(m playoff.Match, homeScore, awayScore float64, byID map[string]member.Member) string {
	if homeScore != awayScore {
		if homeScore > awayScore {
			return m.HomeMemberID
		}
		return m.AwayMemberID
	}

	homeSnap := tiebreakerSnapshot(byID[m.HomeMemberID])
	awaySnap := tiebreakerSnapshot(byID[m.AwayMemberID])
	if homeSnap != awaySnap {
		if homeSnap > awaySnap {
			return m.HomeMemberID
		}
		return m.AwayMemberID
	}

	if m.HomeMemberID < m.AwayMemberID {
		return m.HomeMemberID
	}
	return m.AwayMemberID
}

func tiebreakerSnapshot(m member.Member) float64 {
	if m.TiebreakerPoints == nil {
		return 0
	}
	return *m.TiebreakerPoints
}

// playoffRoundWeek maps a bracket round to the calendar week whose
// scores decide it: semifinals run the week after the regular season,
// the final the week after that.
func playoffRoundWeek(seasonWeeks int, round playoff.Round) int {
	if round == playoff.RoundFinal {
		return seasonWeeks + 2
	}
	return seasonWeeks + 1
}

func roundScore(ctx context.Context, tx competition.Tx, leagueID, userID string, week int) (float64, error) {
	if userID == "" {
		return 0, nil
	}
	points, ok, err := tx.WeeklyPoints(ctx, leagueID, userID, week)
	if err != nil {
		return 0, fmt.Errorf("get round score user=%s week=%d: %w", userID, week, err)
	}
	if !ok {
		return 0, nil
	}
	return points, nil
}

// rankForSeeding orders members by wins, then cumulative points, then
// member ID for determinism.
func rankForSeeding(members []member.Member) []member.Member {
	ranked := make([]member.Member, len(members))
	copy(ranked, members)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
