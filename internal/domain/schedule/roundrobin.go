// Package schedule generates deterministic weekly round-robin pairings.
// The same (roster, week) input always yields the same pairings, which
// is what makes schedule generation safely retryable: a rerun either
// finds the week's matchups already stored or recreates the identical set.
package schedule

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidPairing = errors.New("invalid pairing set")

// byeSentinel fills the ring for odd rosters; whoever draws it sits out.
const byeSentinel = ""

// Pairing is one head-to-head slot. An empty Away means the home member
// has a bye this week.
type Pairing struct {
	Home string
	Away string
}

func (p Pairing) Bye() bool {
	return p.Away == byeSentinel
}

// RoundRobin returns the pairings for the given week using the circle
// method: members sorted by ID form a ring, the first stays fixed and
// the rest rotate one position per week. Every member appears exactly
// once per week, and within one rotation cycle (len-1 weeks for even
// rosters, len weeks for odd) no opponent repeats.
func RoundRobin(memberIDs []string, week int) ([]Pairing, error) {
	if week < 1 {
		return nil, fmt.Errorf("week must be >= 1, got %d", week)
	}
	if len(memberIDs) < 2 {
		return nil, fmt.Errorf("round robin needs at least 2 members, got %d", len(memberIDs))
	}

	ring := append([]string(nil), memberIDs...)
	sort.Strings(ring)
	for i := 1; i < len(ring); i++ {
		if ring[i] == ring[i-1] {
			return nil, fmt.Errorf("duplicate member id %q", ring[i])
		}
		if ring[i-1] == byeSentinel {
			return nil, fmt.Errorf("member id cannot be empty")
		}
	}
	if len(ring)%2 != 0 {
		ring = append(ring, byeSentinel)
	}

	n := len(ring)
	rotation := (week - 1) % (n - 1)

	// ring[0] is pinned; positions 1..n-1 rotate.
	rotated := make([]string, n)
	rotated[0] = ring[0]
	for i := 1; i < n; i++ {
		rotated[i] = ring[(i-1+rotation)%(n-1)+1]
	}

	pairings := make([]Pairing, 0, n/2)
	for i := 0; i < n/2; i++ {
		home, away := rotated[i], rotated[n-1-i]
		// The sentinel always sits on the away side.
		if home == byeSentinel {
			home, away = away, home
		}
		pairings = append(pairings, Pairing{Home: home, Away: away})
	}

	return pairings, nil
}

// Validate checks that pairings cover every member exactly once with no
// self-matches and no outsiders.
func Validate(memberIDs []string, pairings []Pairing) error {
	expected := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if expected[id] {
			return fmt.Errorf("%w: duplicate member id %q", ErrInvalidPairing, id)
		}
		expected[id] = true
	}

	seen := make(map[string]bool, len(memberIDs))
	for _, p := range pairings {
		sides := []string{p.Home}
		if !p.Bye() {
			sides = append(sides, p.Away)
		}
		if !p.Bye() && p.Home == p.Away {
			return fmt.Errorf("%w: member %q paired with itself", ErrInvalidPairing, p.Home)
		}
		for _, id := range sides {
			if !expected[id] {
				return fmt.Errorf("%w: unknown member %q", ErrInvalidPairing, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: member %q appears more than once", ErrInvalidPairing, id)
			}
			seen[id] = true
		}
	}

	if len(seen) != len(expected) {
		return fmt.Errorf("%w: %d of %d members scheduled", ErrInvalidPairing, len(seen), len(expected))
	}
	return nil
}
