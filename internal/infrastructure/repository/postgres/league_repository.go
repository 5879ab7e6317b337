package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	qb "github.com/fitrivals/fitrivals-api/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	encoded, err := encodeScoringConfig(l.ScoringConfig)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		PublicID:       l.ID,
		Name:           l.Name,
		OwnerUserID:    l.OwnerUserID,
		RosterCap:      l.RosterCap,
		SeasonWeeks:    l.SeasonWeeks,
		ScoringConfig:  encoded,
		CurrentWeek:    l.CurrentWeek,
		PlayoffStarted: l.PlayoffStarted,
		IsActive:       l.Active,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	lg, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return lg, true, nil
}

func (r *LeagueRepository) ListActive(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		lg, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, lg)
	}
	return out, nil
}

func (r *LeagueRepository) UpdateScoringConfig(ctx context.Context, leagueID string, cfg scoring.Config) error {
	encoded, err := encodeScoringConfig(cfg)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("leagues").
		Set("scoring_config", encoded).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update scoring config query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update scoring config: %w", err)
	}
	return nil
}

// Start stamps the start date and frozen config only on rows that have
// no start date yet, so exactly one caller wins a start race.
func (r *LeagueRepository) Start(ctx context.Context, leagueID string, startDate time.Time, frozen scoring.Config) (bool, error) {
	encoded, err := encodeScoringConfig(frozen)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("leagues").
		Set("start_date", startDate).
		Set("frozen_config", encoded).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("start_date"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build start league query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("start league: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("start league rows affected: %w", err)
	}
	return affected == 1, nil
}
