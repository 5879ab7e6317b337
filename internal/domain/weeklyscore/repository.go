package weeklyscore

import "context"

type Repository interface {
	Upsert(ctx context.Context, s WeeklyScore) error
	Get(ctx context.Context, leagueID, userID string, week int) (WeeklyScore, bool, error)
	ListByLeagueAndWeek(ctx context.Context, leagueID string, week int) ([]WeeklyScore, error)
}
