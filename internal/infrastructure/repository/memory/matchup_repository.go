package memory

import (
	"context"

	"github.com/fitrivals/fitrivals-api/internal/domain/matchup"
)

type MatchupRepository struct {
	store *Store
}

func NewMatchupRepository(store *Store) *MatchupRepository {
	return &MatchupRepository{store: store}
}

func (r *MatchupRepository) ListByLeagueAndWeek(_ context.Context, leagueID string, week int) ([]matchup.Matchup, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return listMatchups(r.store.data, leagueID, week), nil
}

func (r *MatchupRepository) ListByLeague(_ context.Context, leagueID string) ([]matchup.Matchup, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return listMatchups(r.store.data, leagueID, 0), nil
}
