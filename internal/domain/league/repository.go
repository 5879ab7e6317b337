package league

import (
	"context"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
)

// Repository describes league persistence needs from use cases. Mutations
// that belong to the competition state machine (week advancement, playoff
// flags, champion) are deliberately absent: those go through the
// competition store so nothing else can write them.
type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListActive(ctx context.Context) ([]League, error)
	UpdateScoringConfig(ctx context.Context, leagueID string, cfg scoring.Config) error
	// Start assigns the start date and frozen scoring config exactly once.
	// Returns false when the league had already started.
	Start(ctx context.Context, leagueID string, startDate time.Time, frozen scoring.Config) (bool, error)
}
