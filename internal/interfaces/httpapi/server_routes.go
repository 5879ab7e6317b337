package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/matchups", handler.GetCurrentMatchups)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/bracket", handler.GetBracket)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartLeague)))
	mux.Handle("PUT /v1/leagues/{leagueID}/scoring", RequireAuth(verifier, http.HandlerFunc(handler.UpdateScoringConfig)))
	mux.Handle("POST /v1/leagues/{leagueID}/metrics", RequireAuth(verifier, http.HandlerFunc(handler.SubmitMetrics)))
	mux.Handle("GET /v1/leagues/{leagueID}/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/orchestrate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunOrchestrationSweep)))
}
