package memory

import (
	"context"

	"github.com/fitrivals/fitrivals-api/internal/domain/member"
)

type MemberRepository struct {
	store *Store
}

func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

func (r *MemberRepository) Join(_ context.Context, m member.Member) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.members {
		if existing.LeagueID == m.LeagueID && existing.UserID == m.UserID {
			return false, nil
		}
	}
	r.store.data.members[m.ID] = m
	return true, nil
}

func (r *MemberRepository) Leave(_ context.Context, leagueID, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.data.members {
		if existing.LeagueID == leagueID && existing.UserID == userID {
			delete(r.store.data.members, id)
			return nil
		}
	}
	return nil
}

func (r *MemberRepository) GetByUser(_ context.Context, leagueID, userID string) (member.Member, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.members {
		if existing.LeagueID == leagueID && existing.UserID == userID {
			return existing, true, nil
		}
	}
	return member.Member{}, false, nil
}

func (r *MemberRepository) ListByLeague(_ context.Context, leagueID string) ([]member.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return listMembers(r.store.data, leagueID), nil
}

func (r *MemberRepository) CountByLeague(_ context.Context, leagueID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, existing := range r.store.data.members {
		if existing.LeagueID == leagueID {
			count++
		}
	}
	return count, nil
}
