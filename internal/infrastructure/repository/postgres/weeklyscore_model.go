package postgres

import (
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
)

type weeklyScoreTableModel struct {
	ID             int64     `db:"id"`
	LeagueID       string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	Week           int       `db:"week"`
	Steps          float64   `db:"steps"`
	ActiveCalories float64   `db:"active_calories"`
	DistanceKM     float64   `db:"distance_km"`
	SleepMinutes   float64   `db:"sleep_minutes"`
	WorkoutMinutes float64   `db:"workout_minutes"`
	Points         float64   `db:"points"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type weeklyScoreInsertModel struct {
	LeagueID       string  `db:"league_public_id"`
	UserID         string  `db:"user_id"`
	Week           int     `db:"week"`
	Steps          float64 `db:"steps"`
	ActiveCalories float64 `db:"active_calories"`
	DistanceKM     float64 `db:"distance_km"`
	SleepMinutes   float64 `db:"sleep_minutes"`
	WorkoutMinutes float64 `db:"workout_minutes"`
	Points         float64 `db:"points"`
}

func (row weeklyScoreTableModel) toDomain() weeklyscore.WeeklyScore {
	return weeklyscore.WeeklyScore{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		Week:     row.Week,
		Metrics: scoring.Metrics{
			Steps:          row.Steps,
			ActiveCalories: row.ActiveCalories,
			DistanceKM:     row.DistanceKM,
			SleepMinutes:   row.SleepMinutes,
			WorkoutMinutes: row.WorkoutMinutes,
		},
		Points: row.Points,
	}
}
