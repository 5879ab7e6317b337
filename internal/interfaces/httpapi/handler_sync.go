package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fitrivals/fitrivals-api/internal/domain/scoring"
	"github.com/fitrivals/fitrivals-api/internal/usecase"
)

type submitMetricsRequest struct {
	Week           int     `json:"week" validate:"required,min=1"`
	Steps          float64 `json:"steps"`
	ActiveCalories float64 `json:"active_calories"`
	DistanceKM     float64 `json:"distance_km"`
	SleepMinutes   float64 `json:"sleep_minutes"`
	WorkoutMinutes float64 `json:"workout_minutes"`
}

// SubmitMetrics ingests one member's weekly health totals. Each sync
// replaces the previous record for the week wholesale; devices re-sync
// freely until the week is finalized.
func (h *Handler) SubmitMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitMetrics")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	var req submitMetricsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ws, err := h.syncService.SubmitWeeklyMetrics(ctx, leagueID, principal.UserID, req.Week, scoring.Metrics{
		Steps:          req.Steps,
		ActiveCalories: req.ActiveCalories,
		DistanceKM:     req.DistanceKM,
		SleepMinutes:   req.SleepMinutes,
		WorkoutMinutes: req.WorkoutMinutes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit metrics failed", "user_id", principal.UserID, "league_id", leagueID, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.standingsService.Invalidate(ctx, leagueID)

	writeSuccess(ctx, w, http.StatusOK, weeklyScoreToDTO(ws))
}
