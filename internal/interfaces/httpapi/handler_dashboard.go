package httpapi

import (
	"net/http"
	"strings"
)

// GetDashboard is the client's single league view: it first runs the
// orchestrator so every elapsed transition is applied, then returns the
// refreshed standings, current matchups and bracket in one payload.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))

	if err := h.orchestrator.RunOrchestration(ctx, leagueID); err != nil {
		h.logger.WarnContext(ctx, "dashboard orchestration failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	// Transitions may have just landed; drop stale read models before
	// assembling the view.
	h.standingsService.Invalidate(ctx, leagueID)

	lg, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	standings, err := h.standingsService.Standings(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchups, err := h.standingsService.CurrentMatchups(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dto := dashboardDTO{
		League:    leagueToDTO(lg),
		Standings: make([]standingsRowDTO, 0, len(standings)),
		Matchups:  make([]matchupViewDTO, 0, len(matchups)),
	}
	for _, row := range standings {
		dto.Standings = append(dto.Standings, standingsRowToDTO(row))
	}
	for _, mv := range matchups {
		dto.Matchups = append(dto.Matchups, matchupViewToDTO(mv))
	}

	if lg.PlayoffStarted {
		bracket, err := h.standingsService.Bracket(ctx, leagueID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		view := bracketToDTO(bracket)
		dto.Bracket = &view
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	standings, err := h.standingsService.Standings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingsRowDTO, 0, len(standings))
	for _, row := range standings {
		items = append(items, standingsRowToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCurrentMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentMatchups")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	matchups, err := h.standingsService.CurrentMatchups(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchups failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchupViewDTO, 0, len(matchups))
	for _, mv := range matchups {
		items = append(items, matchupViewToDTO(mv))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBracket")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	bracket, err := h.standingsService.Bracket(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get bracket failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bracketToDTO(bracket))
}
