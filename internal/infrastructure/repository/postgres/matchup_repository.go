package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
	qb "github.com/fitrivals/fitrivals-api/internal/platform/querybuilder"
)

type MatchupRepository struct {
	db *sqlx.DB
}

func NewMatchupRepository(db *sqlx.DB) *MatchupRepository {
	return &MatchupRepository{db: db}
}

func (r *MatchupRepository) ListByLeagueAndWeek(ctx context.Context, leagueID string, week int) ([]matchup.Matchup, error) {
	query, args, err := qb.Select("*").From("matchups").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("week", week),
		).
		OrderBy("slot").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matchups query: %w", err)
	}
	return r.selectMatchups(ctx, query, args)
}

func (r *MatchupRepository) ListByLeague(ctx context.Context, leagueID string) ([]matchup.Matchup, error) {
	query, args, err := qb.Select("*").From("matchups").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("week", "slot").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league matchups query: %w", err)
	}
	return r.selectMatchups(ctx, query, args)
}

func (r *MatchupRepository) selectMatchups(ctx context.Context, query string, args []any) ([]matchup.Matchup, error) {
	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchups: %w", err)
	}

	out := make([]matchup.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
