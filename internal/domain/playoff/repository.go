package playoff

import "context"

// Repository is the read-side view of the bracket. Creation and
// resolution happen inside the competition store's transactions.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Match, error)
}
