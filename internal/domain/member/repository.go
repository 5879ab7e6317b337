package member

import "context"

type Repository interface {
	// Join inserts the (league, user) record if absent. Returns false
	// when the user was already a member (duplicate join is a no-op).
	Join(ctx context.Context, m Member) (bool, error)
	Leave(ctx context.Context, leagueID, userID string) error
	GetByUser(ctx context.Context, leagueID, userID string) (Member, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Member, error)
	CountByLeague(ctx context.Context, leagueID string) (int, error)
}
