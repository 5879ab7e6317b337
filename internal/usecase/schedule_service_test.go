package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sourcegraph/conc"
)

func TestGenerateWeekScheduleEvenRoster(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)
	ctx := context.Background()

	batch, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d matchups, want 2", len(batch))
	}
	seen := map[string]bool{}
	for i, m := range batch {
		if m.Slot != i+1 {
			t.Fatalf("matchup %d has slot %d", i, m.Slot)
		}
		if m.AwayMemberID == nil {
			t.Fatalf("even roster produced a bye in slot %d", m.Slot)
		}
		for _, id := range []string{m.HomeMemberID, *m.AwayMemberID} {
			if seen[id] {
				t.Fatalf("member %s paired twice", id)
			}
			seen[id] = true
		}
	}
}

func TestGenerateWeekScheduleOddRosterBye(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 5)
	ctx := context.Background()

	batch, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("got %d matchups, want 3 including the bye", len(batch))
	}
	byes := 0
	for _, m := range batch {
		if m.AwayMemberID == nil {
			byes++
		}
	}
	if byes != 1 {
		t.Fatalf("got %d byes, want exactly 1", byes)
	}
}

func TestGenerateWeekScheduleIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)
	ctx := context.Background()

	first, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if len(second) != len(first) || second[0].ID != first[0].ID {
		t.Fatalf("regeneration replaced the batch: %v then %v", first, second)
	}
}

func TestGenerateWeekScheduleConcurrent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)
	ctx := context.Background()

	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			if _, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, nil); err != nil {
				t.Errorf("concurrent generate: %v", err)
			}
		})
	}
	wg.Wait()

	matchups, _ := h.matchupRepo.ListByLeagueAndWeek(ctx, "lg1", 1)
	if len(matchups) != 2 {
		t.Fatalf("concurrent generation wrote %d matchups, want 2", len(matchups))
	}
}

func TestGenerateWeekScheduleRejectsBeyondSeason(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)

	_, err := h.schedules.GenerateWeekSchedule(context.Background(), "lg1", 5, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for a post-season week", err)
	}
}

func TestGenerateWeekScheduleAbortsCorruptRosterBatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)
	ctx := context.Background()

	// A roster that double-books a member can never yield a valid
	// pairing set; the whole batch must abort with nothing written.
	_, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, []string{"lg1-m01", "lg1-m01", "lg1-m02", "lg1-m03"})
	if err == nil {
		t.Fatal("expected error for a roster listing a member twice")
	}
	if matchups, _ := h.matchupRepo.ListByLeagueAndWeek(ctx, "lg1", 1); len(matchups) != 0 {
		t.Fatalf("aborted generation still wrote %d matchups", len(matchups))
	}
}

func TestGenerateWeekScheduleRosterOverride(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.seedLeague("lg1", 4, 4)
	ctx := context.Background()

	batch, err := h.schedules.GenerateWeekSchedule(ctx, "lg1", 1, []string{"lg1-m01", "lg1-m02"})
	if err != nil {
		t.Fatalf("generate with override: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("got %d matchups, want 1 from the two-member override", len(batch))
	}
}
