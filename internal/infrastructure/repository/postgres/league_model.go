package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
)

type leagueTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	Name             string         `db:"name"`
	OwnerUserID      string         `db:"owner_user_id"`
	RosterCap        int            `db:"roster_cap"`
	SeasonWeeks      int            `db:"season_weeks"`
	ScoringConfig    string         `db:"scoring_config"`
	FrozenConfig     sql.NullString `db:"frozen_config"`
	StartDate        *time.Time     `db:"start_date"`
	CurrentWeek      int            `db:"current_week"`
	PlayoffStarted   bool           `db:"playoff_started"`
	ChampionMemberID sql.NullString `db:"champion_member_id"`
	IsActive         bool           `db:"is_active"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	DeletedAt        *time.Time     `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID       string  `db:"public_id"`
	Name           string  `db:"name"`
	OwnerUserID    string  `db:"owner_user_id"`
	RosterCap      int     `db:"roster_cap"`
	SeasonWeeks    int     `db:"season_weeks"`
	ScoringConfig  string  `db:"scoring_config"`
	FrozenConfig   *string `db:"frozen_config"`
	CurrentWeek    int     `db:"current_week"`
	PlayoffStarted bool    `db:"playoff_started"`
	IsActive       bool    `db:"is_active"`
}

func (row leagueTableModel) toDomain() (league.League, error) {
	cfg, err := decodeScoringConfig(row.ScoringConfig)
	if err != nil {
		return league.League{}, fmt.Errorf("decode scoring config for league %s: %w", row.PublicID, err)
	}

	var frozen scoring.Config
	if row.FrozenConfig.Valid && row.FrozenConfig.String != "" {
		frozen, err = decodeScoringConfig(row.FrozenConfig.String)
		if err != nil {
			return league.League{}, fmt.Errorf("decode frozen config for league %s: %w", row.PublicID, err)
		}
	}

	return league.League{
		ID:             row.PublicID,
		Name:           row.Name,
		OwnerUserID:    row.OwnerUserID,
		RosterCap:      row.RosterCap,
		SeasonWeeks:    row.SeasonWeeks,
		ScoringConfig:  cfg,
		FrozenConfig:   frozen,
		StartDate:      row.StartDate,
		CurrentWeek:    row.CurrentWeek,
		PlayoffStarted: row.PlayoffStarted,
		ChampionID:     nullStringPtr(row.ChampionMemberID),
		Active:         row.IsActive,
	}, nil
}

func encodeScoringConfig(cfg scoring.Config) (string, error) {
	if cfg == nil {
		cfg = scoring.Config{}
	}
	encoded, err := sonic.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal scoring config: %w", err)
	}
	return string(encoded), nil
}

func decodeScoringConfig(raw string) (scoring.Config, error) {
	var out scoring.Config
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
