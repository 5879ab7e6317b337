// Package memory is the in-process persistence backend used by tests
// and local development. It mirrors the postgres backend's visible
// semantics: competition transactions are atomic (mutations land only on
// commit) and serialized, which subsumes the advisory-lock guarantees a
// multi-writer backend needs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/competition"
	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
)

type dataset struct {
	leagues        map[string]league.League
	members        map[string]member.Member
	scores         map[string]weeklyscore.WeeklyScore
	matchups       map[string]matchup.Matchup
	playoffMatches map[string]playoff.Match
}

func newDataset() *dataset {
	return &dataset{
		leagues:        make(map[string]league.League),
		members:        make(map[string]member.Member),
		scores:         make(map[string]weeklyscore.WeeklyScore),
		matchups:       make(map[string]matchup.Matchup),
		playoffMatches: make(map[string]playoff.Match),
	}
}

func (d *dataset) clone() *dataset {
	out := &dataset{
		leagues:        make(map[string]league.League, len(d.leagues)),
		members:        make(map[string]member.Member, len(d.members)),
		scores:         make(map[string]weeklyscore.WeeklyScore, len(d.scores)),
		matchups:       make(map[string]matchup.Matchup, len(d.matchups)),
		playoffMatches: make(map[string]playoff.Match, len(d.playoffMatches)),
	}
	for k, v := range d.leagues {
		out.leagues[k] = v
	}
	for k, v := range d.members {
		out.members[k] = v
	}
	for k, v := range d.scores {
		out.scores[k] = v
	}
	for k, v := range d.matchups {
		out.matchups[k] = v
	}
	for k, v := range d.playoffMatches {
		out.playoffMatches[k] = v
	}
	return out
}

func scoreKey(leagueID, userID string, week int) string {
	return fmt.Sprintf("%s|%s|%d", leagueID, userID, week)
}

// Store holds all aggregates behind one mutex and implements
// competition.Store. Repositories share the same store instance so
// reads observe committed transactions.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

// Exec runs fn against a copy of the dataset and swaps it in on
// success. The store mutex is held for the whole transaction, so
// transactions serialize; advisory lock acquisition inside fn is
// therefore satisfied trivially.
func (s *Store) Exec(ctx context.Context, fn func(tx competition.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{data: s.data.clone(), locks: make(map[string]struct{})}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

type memTx struct {
	data  *dataset
	locks map[string]struct{}
}

func (t *memTx) AcquireLock(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("advisory lock key is required")
	}
	t.locks[key] = struct{}{}
	return nil
}

func (t *memTx) GetLeague(_ context.Context, leagueID string) (league.League, bool, error) {
	lg, ok := t.data.leagues[leagueID]
	return lg, ok, nil
}

func (t *memTx) ListMembers(_ context.Context, leagueID string) ([]member.Member, error) {
	return listMembers(t.data, leagueID), nil
}

func (t *memTx) ListMatchups(_ context.Context, leagueID string, week int) ([]matchup.Matchup, error) {
	return listMatchups(t.data, leagueID, week), nil
}

func (t *memTx) InsertMatchups(_ context.Context, matchups []matchup.Matchup) error {
	for _, m := range matchups {
		if _, exists := t.data.matchups[m.ID]; exists {
			return fmt.Errorf("matchup %s already exists", m.ID)
		}
		for _, existing := range t.data.matchups {
			if existing.LeagueID == m.LeagueID && existing.Week == m.Week && existing.Slot == m.Slot {
				return fmt.Errorf("matchup slot %d already taken for league=%s week=%d", m.Slot, m.LeagueID, m.Week)
			}
		}
		t.data.matchups[m.ID] = m
	}
	return nil
}

func (t *memTx) WeeklyPoints(_ context.Context, leagueID, userID string, week int) (float64, bool, error) {
	ws, ok := t.data.scores[scoreKey(leagueID, userID, week)]
	if !ok {
		return 0, false, nil
	}
	return ws.Points, true, nil
}

func (t *memTx) FinalizeMatchup(_ context.Context, matchupID string, homePoints float64, awayPoints *float64, winnerMemberID *string, finalizedAt time.Time) error {
	m, ok := t.data.matchups[matchupID]
	if !ok {
		return fmt.Errorf("matchup %s not found", matchupID)
	}

	hp := homePoints
	m.HomePoints = &hp
	if awayPoints != nil {
		ap := *awayPoints
		m.AwayPoints = &ap
	} else {
		m.AwayPoints = nil
	}
	if winnerMemberID != nil {
		w := *winnerMemberID
		m.WinnerMemberID = &w
	} else {
		m.WinnerMemberID = nil
	}
	at := finalizedAt
	m.FinalizedAt = &at
	m.Finalized = true
	m.PointsApplied = true

	t.data.matchups[matchupID] = m
	return nil
}

func (t *memTx) CreditMember(_ context.Context, memberID string, points float64, outcome competition.Outcome) error {
	m, ok := t.data.members[memberID]
	if !ok {
		return fmt.Errorf("member %s not found", memberID)
	}

	m.TotalPoints = scoring.Round2(m.TotalPoints + points)
	switch outcome {
	case competition.OutcomeWin:
		m.Wins++
	case competition.OutcomeLoss:
		m.Losses++
	case competition.OutcomeTie:
		m.Ties++
	case competition.OutcomeBye:
		// points only
	}

	t.data.members[memberID] = m
	return nil
}

func (t *memTx) AdvanceWeek(_ context.Context, leagueID string, fromWeek int, _ time.Time) (bool, error) {
	lg, ok := t.data.leagues[leagueID]
	if !ok {
		return false, fmt.Errorf("league %s not found", leagueID)
	}
	if lg.CurrentWeek != fromWeek {
		return false, nil
	}
	lg.CurrentWeek = fromWeek + 1
	t.data.leagues[leagueID] = lg
	return true, nil
}

func (t *memTx) CountPlayoffMatches(_ context.Context, leagueID string) (int, error) {
	count := 0
	for _, m := range t.data.playoffMatches {
		if m.LeagueID == leagueID {
			count++
		}
	}
	return count, nil
}

func (t *memTx) SeedMember(_ context.Context, memberID string, seed int, tiebreakerPoints float64) error {
	m, ok := t.data.members[memberID]
	if !ok {
		return fmt.Errorf("member %s not found", memberID)
	}

	if m.Seed == nil {
		s := seed
		m.Seed = &s
	}
	if m.TiebreakerPoints == nil {
		tp := tiebreakerPoints
		m.TiebreakerPoints = &tp
	}

	t.data.members[memberID] = m
	return nil
}

func (t *memTx) InsertPlayoffMatch(_ context.Context, m playoff.Match) (bool, error) {
	for _, existing := range t.data.playoffMatches {
		if existing.LeagueID == m.LeagueID && existing.Round == m.Round && existing.Slot == m.Slot {
			return false, nil
		}
	}
	if _, exists := t.data.playoffMatches[m.ID]; exists {
		return false, nil
	}
	t.data.playoffMatches[m.ID] = m
	return true, nil
}

func (t *memTx) SetPlayoffStarted(_ context.Context, leagueID string) error {
	lg, ok := t.data.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	lg.PlayoffStarted = true
	t.data.leagues[leagueID] = lg
	return nil
}

func (t *memTx) GetPlayoffMatch(_ context.Context, matchID string) (playoff.Match, bool, error) {
	m, ok := t.data.playoffMatches[matchID]
	return m, ok, nil
}

func (t *memTx) ListPlayoffMatches(_ context.Context, leagueID string) ([]playoff.Match, error) {
	return listPlayoffMatches(t.data, leagueID), nil
}

func (t *memTx) FinalizePlayoffMatch(_ context.Context, matchID string, homeScore, awayScore float64, winnerMemberID string) error {
	m, ok := t.data.playoffMatches[matchID]
	if !ok {
		return fmt.Errorf("playoff match %s not found", matchID)
	}

	hs, as, w := homeScore, awayScore, winnerMemberID
	m.HomeScore = &hs
	m.AwayScore = &as
	m.WinnerMemberID = &w
	m.Finalized = true

	t.data.playoffMatches[matchID] = m
	return nil
}

func (t *memTx) EliminateMember(_ context.Context, memberID string) error {
	m, ok := t.data.members[memberID]
	if !ok {
		return fmt.Errorf("member %s not found", memberID)
	}
	m.Eliminated = true
	t.data.members[memberID] = m
	return nil
}

func (t *memTx) SetChampion(_ context.Context, leagueID, memberID string) error {
	lg, ok := t.data.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	champion := memberID
	lg.ChampionID = &champion
	lg.Active = false
	t.data.leagues[leagueID] = lg
	return nil
}

func listMembers(d *dataset, leagueID string) []member.Member {
	out := make([]member.Member, 0, 8)
	for _, m := range d.members {
		if m.LeagueID == leagueID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listMatchups(d *dataset, leagueID string, week int) []matchup.Matchup {
	out := make([]matchup.Matchup, 0, 8)
	for _, m := range d.matchups {
		if m.LeagueID == leagueID && (week <= 0 || m.Week == week) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

func listPlayoffMatches(d *dataset, leagueID string) []playoff.Match {
	out := make([]playoff.Match, 0, 4)
	for _, m := range d.playoffMatches {
		if m.LeagueID == leagueID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return roundOrder(out[i].Round) < roundOrder(out[j].Round)
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

func roundOrder(r playoff.Round) int {
	if r == playoff.RoundFinal {
		return 1
	}
	return 0
}
