package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/league"
	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.data.leagues[l.ID]; exists {
		return fmt.Errorf("league %s already exists", l.ID)
	}
	r.store.data.leagues[l.ID] = l
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lg, ok := r.store.data.leagues[leagueID]
	return lg, ok, nil
}

func (r *LeagueRepository) ListActive(_ context.Context) ([]league.League, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]league.League, 0, len(r.store.data.leagues))
	for _, lg := range r.store.data.leagues {
		if lg.Active {
			out = append(out, lg)
		}
	}
	sortLeagues(out)
	return out, nil
}

func (r *LeagueRepository) UpdateScoringConfig(_ context.Context, leagueID string, cfg scoring.Config) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lg, ok := r.store.data.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	lg.ScoringConfig = cfg.Clone()
	r.store.data.leagues[leagueID] = lg
	return nil
}

func (r *LeagueRepository) Start(_ context.Context, leagueID string, startDate time.Time, frozen scoring.Config) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lg, ok := r.store.data.leagues[leagueID]
	if !ok {
		return false, fmt.Errorf("league %s not found", leagueID)
	}
	if lg.StartDate != nil {
		return false, nil
	}

	start := startDate
	lg.StartDate = &start
	lg.FrozenConfig = frozen.Clone()
	r.store.data.leagues[leagueID] = lg
	return true, nil
}

func sortLeagues(leagues []league.League) {
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].ID < leagues[j].ID })
}
