package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	qb "github.com/fitrivals/fitrivals-api/internal/platform/querybuilder"
)

type PlayoffRepository struct {
	db *sqlx.DB
}

func NewPlayoffRepository(db *sqlx.DB) *PlayoffRepository {
	return &PlayoffRepository{db: db}
}

func (r *PlayoffRepository) GetByID(ctx context.Context, matchID string) (playoff.Match, bool, error) {
	query, args, err := qb.Select("*").From("playoff_matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return playoff.Match{}, false, fmt.Errorf("build get playoff match query: %w", err)
	}

	var row playoffMatchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playoff.Match{}, false, nil
		}
		return playoff.Match{}, false, fmt.Errorf("get playoff match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayoffRepository) ListByLeague(ctx context.Context, leagueID string) ([]playoff.Match, error) {
	query, args, err := qb.Select("*").From("playoff_matches").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("round DESC", "slot").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list playoff matches query: %w", err)
	}

	var rows []playoffMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list playoff matches: %w", err)
	}

	out := make([]playoff.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
