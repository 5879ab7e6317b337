// Package competition defines the transactional boundary of the
// competition state machine. Every state transition (week finalization,
// playoff generation, playoff match resolution) runs inside a single
// store transaction: it either fully commits or fully rolls back, and
// mutual exclusion comes from transaction-scoped advisory locks keyed by
// semantic strings, never from process-local state.
package competition

import (
	"context"
	"fmt"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
)

// Store opens competition transactions.
type Store interface {
	// Exec runs fn inside one transaction. Any error aborts the whole
	// transaction; callers may retry the same logical operation blindly.
	Exec(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of reads and conditional writes the state transitions
// are built from. Member aggregate fields and league competition fields
// are writable only through these methods.
type Tx interface {
	// AcquireLock blocks until the advisory lock for key is held by this
	// transaction. The lock releases implicitly at commit or rollback.
	AcquireLock(ctx context.Context, key string) error

	GetLeague(ctx context.Context, leagueID string) (league.League, bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]member.Member, error)

	ListMatchups(ctx context.Context, leagueID string, week int) ([]matchup.Matchup, error)
	InsertMatchups(ctx context.Context, matchups []matchup.Matchup) error
	// WeeklyPoints returns the member's derived point total for the week.
	// A missing record reports ok=false; callers treat that as zero.
	WeeklyPoints(ctx context.Context, leagueID, userID string, week int) (float64, bool, error)
	// FinalizeMatchup stores the point snapshots, winner and timestamp
	// and flips both the finalized and points-rolled flags.
	FinalizeMatchup(ctx context.Context, matchupID string, homePoints float64, awayPoints *float64, winnerMemberID *string, finalizedAt time.Time) error
	// CreditMember rolls one finalized matchup side into the member's
	// cumulative points and win/loss/tie counts.
	CreditMember(ctx context.Context, memberID string, points float64, outcome Outcome) error
	// AdvanceWeek moves the league's current-week pointer from fromWeek
	// to fromWeek+1 as a compare-and-set; false means another caller
	// already advanced it.
	AdvanceWeek(ctx context.Context, leagueID string, fromWeek int, finalizedAt time.Time) (bool, error)

	CountPlayoffMatches(ctx context.Context, leagueID string) (int, error)
	// SeedMember assigns the playoff seed and freezes the tiebreaker
	// snapshot; both are written only if not already set.
	SeedMember(ctx context.Context, memberID string, seed int, tiebreakerPoints float64) error
	// InsertPlayoffMatch inserts the bracket node if its (league, round,
	// slot) is vacant; false means it already existed.
	InsertPlayoffMatch(ctx context.Context, m playoff.Match) (bool, error)
	SetPlayoffStarted(ctx context.Context, leagueID string) error

	GetPlayoffMatch(ctx context.Context, matchID string) (playoff.Match, bool, error)
	ListPlayoffMatches(ctx context.Context, leagueID string) ([]playoff.Match, error)
	FinalizePlayoffMatch(ctx context.Context, matchID string, homeScore, awayScore float64, winnerMemberID string) error
	EliminateMember(ctx context.Context, memberID string) error
	// SetChampion records the champion and deactivates the league.
	SetChampion(ctx context.Context, leagueID, memberID string) error
}

// Outcome is one side's result of a finalized matchup.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomeTie
	// OutcomeBye rolls the week's points into the member's cumulative
	// total without touching win/loss/tie counts.
	OutcomeBye
)

// Lock keys serialize only their own critical section, preserving
// parallelism across leagues and weeks.

func WeekLockKey(leagueID string, week int) string {
	return fmt.Sprintf("league:week:%s:%d", leagueID, week)
}

func PlayoffLockKey(leagueID string) string {
	return fmt.Sprintf("league:playoffs:%s", leagueID)
}

func MatchLockKey(matchID string) string {
	return fmt.Sprintf("playoff:match:%s", matchID)
}
