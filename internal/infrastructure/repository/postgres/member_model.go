package postgres

import (
	"database/sql"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/member"
)

type memberTableModel struct {
	ID               int64           `db:"id"`
	PublicID         string          `db:"public_id"`
	LeagueID         string          `db:"league_public_id"`
	UserID           string          `db:"user_id"`
	Wins             int             `db:"wins"`
	Losses           int             `db:"losses"`
	Ties             int             `db:"ties"`
	TotalPoints      float64         `db:"total_points"`
	Seed             sql.NullInt64   `db:"seed"`
	TiebreakerPoints sql.NullFloat64 `db:"tiebreaker_points"`
	IsEliminated     bool            `db:"is_eliminated"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	DeletedAt        *time.Time      `db:"deleted_at"`
}

type memberInsertModel struct {
	PublicID string `db:"public_id"`
	LeagueID string `db:"league_public_id"`
	UserID   string `db:"user_id"`
}

func (row memberTableModel) toDomain() member.Member {
	return member.Member{
		ID:               row.PublicID,
		LeagueID:         row.LeagueID,
		UserID:           row.UserID,
		Wins:             row.Wins,
		Losses:           row.Losses,
		Ties:             row.Ties,
		TotalPoints:      row.TotalPoints,
		Seed:             nullInt64Ptr(row.Seed),
		TiebreakerPoints: nullFloat64Ptr(row.TiebreakerPoints),
		Eliminated:       row.IsEliminated,
	}
}
