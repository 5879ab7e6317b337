package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
	qb "github.com/fitrivals/fitrivals-api/internal/platform/querybuilder"
)

const weeklyScoreUpsertSuffix = `ON CONFLICT (league_public_id, user_id, week) DO UPDATE SET
steps = EXCLUDED.steps,
active_calories = EXCLUDED.active_calories,
distance_km = EXCLUDED.distance_km,
sleep_minutes = EXCLUDED.sleep_minutes,
workout_minutes = EXCLUDED.workout_minutes,
points = EXCLUDED.points,
updated_at = NOW()`

type WeeklyScoreRepository struct {
	db *sqlx.DB
}

func NewWeeklyScoreRepository(db *sqlx.DB) *WeeklyScoreRepository {
	return &WeeklyScoreRepository{db: db}
}

func (r *WeeklyScoreRepository) Upsert(ctx context.Context, s weeklyscore.WeeklyScore) error {
	query, args, err := qb.InsertModel("weekly_scores", weeklyScoreInsertModel{
		LeagueID:       s.LeagueID,
		UserID:         s.UserID,
		Week:           s.Week,
		Steps:          s.Metrics.Steps,
		ActiveCalories: s.Metrics.ActiveCalories,
		DistanceKM:     s.Metrics.DistanceKM,
		SleepMinutes:   s.Metrics.SleepMinutes,
		WorkoutMinutes: s.Metrics.WorkoutMinutes,
		Points:         s.Points,
	}, weeklyScoreUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert weekly score query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert weekly score: %w", err)
	}
	return nil
}

func (r *WeeklyScoreRepository) Get(ctx context.Context, leagueID, userID string, week int) (weeklyscore.WeeklyScore, bool, error) {
	query, args, err := qb.Select("*").From("weekly_scores").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
		).
		ToSQL()
	if err != nil {
		return weeklyscore.WeeklyScore{}, false, fmt.Errorf("build get weekly score query: %w", err)
	}

	var row weeklyScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return weeklyscore.WeeklyScore{}, false, nil
		}
		return weeklyscore.WeeklyScore{}, false, fmt.Errorf("get weekly score: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *WeeklyScoreRepository) ListByLeagueAndWeek(ctx context.Context, leagueID string, week int) ([]weeklyscore.WeeklyScore, error) {
	query, args, err := qb.Select("*").From("weekly_scores").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("week", week),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weekly scores query: %w", err)
	}

	var rows []weeklyScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weekly scores: %w", err)
	}

	out := make([]weeklyscore.WeeklyScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
