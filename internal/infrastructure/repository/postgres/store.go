package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitrivals/fitrivals-api/internal/domain/competition"
	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
	"github.com/fitrivals/fitrivals-api/internal/domain/member"
	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
	qb "github.com/fitrivals/fitrivals-api/internal/platform/querybuilder"
)

// Store implements competition.Store on postgres. Mutual exclusion
// comes from pg_advisory_xact_lock keyed by hashtext of the semantic
// lock string; the lock releases with the transaction, so there is no
// unlock path to forget on error.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Exec(ctx context.Context, fn func(tx competition.Tx) error) error {
	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin competition transaction: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck

	if err := fn(&pgTx{tx: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit competition transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) AcquireLock(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("advisory lock key is required")
	}
	if _, err := t.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", key, err)
	}
	return nil
}

func (t *pgTx) GetLeague(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := t.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	lg, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return lg, true, nil
}

func (t *pgTx) ListMembers(ctx context.Context, leagueID string) ([]member.Member, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var rows []memberTableModel
	if err := t.tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (t *pgTx) ListMatchups(ctx context.Context, leagueID string, week int) ([]matchup.Matchup, error) {
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

	var rows []matchupTableModel
	if err := t.tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matchups: %w", err)
	}

	out := make([]matchup.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// InsertMatchups carries ON CONFLICT DO NOTHING on the (league, week,
// slot) key as a backstop: under the week lock a concurrent generator
// either sees the existing rows or re-inserts the identical
// deterministic batch harmlessly.
func (t *pgTx) InsertMatchups(ctx context.Context, matchups []matchup.Matchup) error {
	for _, m := range matchups {
		query, args, err := qb.InsertModel("matchups", matchupInsertModel{
			PublicID:     m.ID,
			LeagueID:     m.LeagueID,
			Week:         m.Week,
			Slot:         m.Slot,
			HomeMemberID: m.HomeMemberID,
			AwayMemberID: m.AwayMemberID,
		}, "ON CONFLICT (league_public_id, week, slot) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert matchup query: %w", err)
		}
		if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert matchup week=%d slot=%d: %w", m.Week, m.Slot, err)
		}
	}
	return nil
}

func (t *pgTx) WeeklyPoints(ctx context.Context, leagueID, userID string, week int) (float64, bool, error) {
	query, args, err := qb.Select("points").From("weekly_scores").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
		).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build weekly points query: %w", err)
	}

	var points float64
	if err := t.tx.GetContext(ctx, &points, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get weekly points: %w", err)
	}
	return points, true, nil
}

func (t *pgTx) FinalizeMatchup(ctx context.Context, matchupID string, homePoints float64, awayPoints *float64, winnerMemberID *string, finalizedAt time.Time) error {
	query, args, err := qb.Update("matchups").
		Set("is_finalized", true).
		Set("points_applied", true).
		Set("home_points", homePoints).
		Set("away_points", awayPoints).
		Set("winner_member_id", winnerMemberID).
		Set("finalized_at", finalizedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", matchupID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finalize matchup query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("finalize matchup %s: %w", matchupID, err)
	}
	return nil
}

func (t *pgTx) CreditMember(ctx context.Context, memberID string, points float64, outcome competition.Outcome) error {
	update := qb.Update("league_members").
		SetExpr("total_points", "ROUND((total_points + ?)::numeric, 2)", points).
		SetExpr("updated_at", "NOW()")

	switch outcome {
	case competition.OutcomeWin:
		update.SetExpr("wins", "wins + 1")
	case competition.OutcomeLoss:
		update.SetExpr("losses", "losses + 1")
	case competition.OutcomeTie:
		update.SetExpr("ties", "ties + 1")
	case competition.OutcomeBye:
		// points only
	}

	query, args, err := update.
		Where(qb.Eq("public_id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build credit member query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("credit member %s: %w", memberID, err)
	}
	return nil
}

func (t *pgTx) AdvanceWeek(ctx context.Context, leagueID string, fromWeek int, finalizedAt time.Time) (bool, error) {
	query, args, err := qb.Update("leagues").
		Set("current_week", fromWeek+1).
		Set("updated_at", finalizedAt).
		Where(
			qb.Eq("public_id", leagueID),
			qb.Eq("current_week", fromWeek),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build advance week query: %w", err)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("advance week: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("advance week rows affected: %w", err)
	}
	return affected == 1, nil
}

func (t *pgTx) CountPlayoffMatches(ctx context.Context, leagueID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("playoff_matches").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count playoff matches query: %w", err)
	}

	var count int
	if err := t.tx.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count playoff matches: %w", err)
	}
	return count, nil
}

func (t *pgTx) SeedMember(ctx context.Context, memberID string, seed int, tiebreakerPoints float64) error {
	query, args, err := qb.Update("league_members").
		SetExpr("seed", "COALESCE(seed, ?)", seed).
		SetExpr("tiebreaker_points", "COALESCE(tiebreaker_points, ?)", tiebreakerPoints).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build seed member query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed member %s: %w", memberID, err)
	}
	return nil
}

func (t *pgTx) InsertPlayoffMatch(ctx context.Context, m playoff.Match) (bool, error) {
	query, args, err := qb.InsertModel("playoff_matches", playoffMatchInsertModel{
		PublicID:     m.ID,
		LeagueID:     m.LeagueID,
		Round:        string(m.Round),
		Slot:         m.Slot,
		HomeMemberID: m.HomeMemberID,
		AwayMemberID: m.AwayMemberID,
	}, "ON CONFLICT (league_public_id, round, slot) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build insert playoff match query: %w", err)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert playoff match round=%s slot=%d: %w", m.Round, m.Slot, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert playoff match rows affected: %w", err)
	}
	return affected == 1, nil
}

func (t *pgTx) SetPlayoffStarted(ctx context.Context, leagueID string) error {
	query, args, err := qb.Update("leagues").
		Set("playoff_started", true).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set playoff started query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set playoff started: %w", err)
	}
	return nil
}

func (t *pgTx) GetPlayoffMatch(ctx context.Context, matchID string) (playoff.Match, bool, error) {
	query, args, err := qb.Select("*").From("playoff_matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return playoff.Match{}, false, fmt.Errorf("build get playoff match query: %w", err)
	}

	var row playoffMatchTableModel
	if err := t.tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playoff.Match{}, false, nil
		}
		return playoff.Match{}, false, fmt.Errorf("get playoff match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (t *pgTx) ListPlayoffMatches(ctx context.Context, leagueID string) ([]playoff.Match, error) {
	query, args, err := qb.Select("*").From("playoff_matches").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("round DESC", "slot").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list playoff matches query: %w", err)
	}

	var rows []playoffMatchTableModel
	if err := t.tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list playoff matches: %w", err)
	}

	out := make([]playoff.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (t *pgTx) FinalizePlayoffMatch(ctx context.Context, matchID string, homeScore, awayScore float64, winnerMemberID string) error {
	query, args, err := qb.Update("playoff_matches").
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		Set("winner_member_id", winnerMemberID).
		Set("is_finalized", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finalize playoff match query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("finalize playoff match %s: %w", matchID, err)
	}
	return nil
}

func (t *pgTx) EliminateMember(ctx context.Context, memberID string) error {
	query, args, err := qb.Update("league_members").
		Set("is_eliminated", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build eliminate member query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("eliminate member %s: %w", memberID, err)
	}
	return nil
}

func (t *pgTx) SetChampion(ctx context.Context, leagueID, memberID string) error {
	query, args, err := qb.Update("leagues").
		Set("champion_member_id", memberID).
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set champion query: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set champion: %w", err)
	}
	return nil
}
