package memory

import (
	"context"
	"sort"

	"github.com/fitrivals/fitrivals-api/internal/domain/weeklyscore"
)

type WeeklyScoreRepository struct {
	store *Store
}

func NewWeeklyScoreRepository(store *Store) *WeeklyScoreRepository {
	return &WeeklyScoreRepository{store: store}
}

func (r *WeeklyScoreRepository) Upsert(_ context.Context, s weeklyscore.WeeklyScore) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.scores[scoreKey(s.LeagueID, s.UserID, s.Week)] = s
	return nil
}

func (r *WeeklyScoreRepository) Get(_ context.Context, leagueID, userID string, week int) (weeklyscore.WeeklyScore, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ws, ok := r.store.data.scores[scoreKey(leagueID, userID, week)]
	return ws, ok, nil
}

func (r *WeeklyScoreRepository) ListByLeagueAndWeek(_ context.Context, leagueID string, week int) ([]weeklyscore.WeeklyScore, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]weeklyscore.WeeklyScore, 0, 8)
	for _, ws := range r.store.data.scores {
		if ws.LeagueID == leagueID && ws.Week == week {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
