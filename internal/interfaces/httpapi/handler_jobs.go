package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/fitrivals/fitrivals-api/internal/usecase"
)

type orchestrationSweepRequest struct {
	MaxWorkers int `json:"max_workers" validate:"omitempty,min=1,max=64"`
}

// RunOrchestrationSweep is the scheduler entry point: it catches every
// active league up to the canonical clock. Redundant with the
// per-dashboard trigger, so an overlapping cron run is harmless.
func (h *Handler) RunOrchestrationSweep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunOrchestrationSweep")
	defer span.End()

	if h.orchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeOrchestrationSweepRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	workers := req.MaxWorkers
	if workers == 0 {
		workers = h.sweepMaxWorkers
	}

	result, err := h.orchestrator.RunOrchestrationSweep(ctx, workers)
	if err != nil {
		h.logger.WarnContext(ctx, "orchestration sweep failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "orchestration sweep finished",
		"league_count", result.LeagueCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
		"worker_count", result.WorkerCount,
	)

	writeSuccess(ctx, w, http.StatusOK, result)
}

// decodeOrchestrationSweepRequest accepts an empty body: the sweep has
// sensible defaults and most schedulers POST without a payload.
func decodeOrchestrationSweepRequest(r *http.Request) (orchestrationSweepRequest, error) {
	var req orchestrationSweepRequest
	if r.Body == nil {
		return req, nil
	}
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}
