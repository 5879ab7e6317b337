package matchup

import "context"

// Repository is the read-side view of matchups. All mutation happens
// inside the competition store's transactions.
type Repository interface {
	ListByLeagueAndWeek(ctx context.Context, leagueID string, week int) ([]Matchup, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Matchup, error)
}
