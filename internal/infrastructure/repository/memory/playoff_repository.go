package memory

import (
	"context"

	"github.com/fitrivals/fitrivals-api/internal/domain/playoff"
)

type PlayoffRepository struct {
	store *Store
}

func NewPlayoffRepository(store *Store) *PlayoffRepository {
	return &PlayoffRepository{store: store}
}

func (r *PlayoffRepository) GetByID(_ context.Context, matchID string) (playoff.Match, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.data.playoffMatches[matchID]
	return m, ok, nil
}

func (r *PlayoffRepository) ListByLeague(_ context.Context, leagueID string) ([]playoff.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return listPlayoffMatches(r.store.data, leagueID), nil
}
