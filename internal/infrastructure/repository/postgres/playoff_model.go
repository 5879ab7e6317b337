package postgres

import (
	"database/sql"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
)

type playoffMatchTableModel struct {
	ID             int64           `db:"id"`
	PublicID       string          `db:"public_id"`
	LeagueID       string          `db:"league_public_id"`
	Round          string          `db:"round"`
	Slot           int             `db:"slot"`
	HomeMemberID   string          `db:"home_member_id"`
	AwayMemberID   string          `db:"away_member_id"`
	HomeScore      sql.NullFloat64 `db:"home_score"`
	AwayScore      sql.NullFloat64 `db:"away_score"`
	WinnerMemberID sql.NullString  `db:"winner_member_id"`
	IsFinalized    bool            `db:"is_finalized"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type playoffMatchInsertModel struct {
	PublicID     string `db:"public_id"`
	LeagueID     string `db:"league_public_id"`
	Round        string `db:"round"`
	Slot         int    `db:"slot"`
	HomeMemberID string `db:"home_member_id"`
	AwayMemberID string `db:"away_member_id"`
}

func (row playoffMatchTableModel) toDomain() playoff.Match {
	return playoff.Match{
		ID:             row.PublicID,
		LeagueID:       row.LeagueID,
		Round:          playoff.Round(row.Round),
		Slot:           row.Slot,
		HomeMemberID:   row.HomeMemberID,
		AwayMemberID:   row.AwayMemberID,
		HomeScore:      nullFloat64Ptr(row.HomeScore),
		AwayScore:      nullFloat64Ptr(row.AwayScore),
		WinnerMemberID: nullStringPtr(row.WinnerMemberID),
		Finalized:      row.IsFinalized,
	}
}
