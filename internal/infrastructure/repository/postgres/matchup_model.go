package postgres

import (
	"database/sql"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
)

type matchupTableModel struct {
	ID             int64           `db:"id"`
	PublicID       string          `db:"public_id"`
	LeagueID       string          `db:"league_public_id"`
	Week           int             `db:"week"`
	Slot           int             `db:"slot"`
	HomeMemberID   string          `db:"home_member_id"`
	AwayMemberID   sql.NullString  `db:"away_member_id"`
	IsFinalized    bool            `db:"is_finalized"`
	PointsApplied  bool            `db:"points_applied"`
	HomePoints     sql.NullFloat64 `db:"home_points"`
	AwayPoints     sql.NullFloat64 `db:"away_points"`
	WinnerMemberID sql.NullString  `db:"winner_member_id"`
	FinalizedAt    *time.Time      `db:"finalized_at"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type matchupInsertModel struct {
	PublicID     string  `db:"public_id"`
	LeagueID     string  `db:"league_public_id"`
	Week         int     `db:"week"`
	Slot         int     `db:"slot"`
	HomeMemberID string  `db:"home_member_id"`
	AwayMemberID *string `db:"away_member_id"`
}

func (row matchupTableModel) toDomain() matchup.Matchup {
	return matchup.Matchup{
		ID:             row.PublicID,
		LeagueID:       row.LeagueID,
		Week:           row.Week,
		Slot:           row.Slot,
		HomeMemberID:   row.HomeMemberID,
		AwayMemberID:   nullStringPtr(row.AwayMemberID),
		Finalized:      row.IsFinalized,
		PointsApplied:  row.PointsApplied,
		HomePoints:     nullFloat64Ptr(row.HomePoints),
		AwayPoints:     nullFloat64Ptr(row.AwayPoints),
		WinnerMemberID: nullStringPtr(row.WinnerMemberID),
		FinalizedAt:    row.FinalizedAt,
	}
}
