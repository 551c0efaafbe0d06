package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rounds", handler.ListRounds)
	mux.HandleFunc("GET /v1/rounds/current", handler.GetCurrentRound)
	mux.HandleFunc("GET /v1/rounds/{roundNumber}", handler.GetRound)
	mux.HandleFunc("GET /v1/rounds/{roundNumber}/editable", handler.GetRoundEditable)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/qualified", handler.ListQualifiedPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/detailed", handler.GetDetailedStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/rounds/{roundNumber}/team", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("PUT /v1/rounds/{roundNumber}/team", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyTeam)))
	mux.Handle("POST /v1/rounds/{roundNumber}/team/preview", RequireAuth(verifier, http.HandlerFunc(handler.PreviewMyTeam)))
	mux.Handle("POST /v1/rounds/{roundNumber}/transfers", RequireAuth(verifier, http.HandlerFunc(handler.ApplyMyTransfer)))
	mux.Handle("GET /v1/rounds/{roundNumber}/transfers", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTransfers)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminKey string) {
	mux.Handle("POST /v1/admin/rounds", RequireAdminKey(adminKey, http.HandlerFunc(handler.CreateRound)))
	mux.Handle("PUT /v1/admin/rounds/{roundNumber}", RequireAdminKey(adminKey, http.HandlerFunc(handler.UpdateRound)))
	mux.Handle("DELETE /v1/admin/rounds/{roundNumber}", RequireAdminKey(adminKey, http.HandlerFunc(handler.DeleteRound)))
	mux.Handle("POST /v1/admin/rounds/{roundNumber}/close", RequireAdminKey(adminKey, http.HandlerFunc(handler.CloseRound)))
	mux.Handle("POST /v1/admin/rounds/{roundNumber}/scores", RequireAdminKey(adminKey, http.HandlerFunc(handler.EnterScores)))
	mux.Handle("POST /v1/admin/rounds/{roundNumber}/recompute", RequireAdminKey(adminKey, http.HandlerFunc(handler.RecomputeRound)))
	mux.Handle("POST /v1/admin/players", RequireAdminKey(adminKey, http.HandlerFunc(handler.CreatePlayer)))
	mux.Handle("PUT /v1/admin/players/{playerID}", RequireAdminKey(adminKey, http.HandlerFunc(handler.UpdatePlayer)))
	mux.Handle("DELETE /v1/admin/players/{playerID}", RequireAdminKey(adminKey, http.HandlerFunc(handler.DeletePlayer)))
}
