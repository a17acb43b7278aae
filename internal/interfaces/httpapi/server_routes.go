package httpapi

import "net/http"

type routeRegistrar struct {
	mux      *http.ServeMux
	recorder RequestRecorder
	verifier TokenVerifier
}

func (r *routeRegistrar) public(pattern string, handler http.HandlerFunc) {
	r.mux.Handle(pattern, instrumentRoute(r.recorder, pattern, handler))
}

func (r *routeRegistrar) authorized(pattern string, handler http.HandlerFunc) {
	r.mux.Handle(pattern, instrumentRoute(r.recorder, pattern, RequireAuth(r.verifier, handler)))
}

func registerSystemRoutes(routes *routeRegistrar, handler *Handler, opts RouterOptions) {
	routes.mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.Metrics != nil {
		routes.mux.Handle("GET /metrics", opts.Metrics)
	}
	if !opts.SwaggerEnabled {
		return
	}

	routes.mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	routes.mux.HandleFunc("GET /docs", handler.SwaggerUI)
	routes.mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerGameQueryRoutes(routes *routeRegistrar, handler *Handler) {
	routes.public("GET /v1/games", handler.ListGames)
	routes.public("GET /v1/games/{gameID}", handler.GetGame)
	routes.public("GET /v1/games/{gameID}/standings", handler.GetStandings)
	routes.public("GET /v1/games/{gameID}/subscribe", handler.Subscribe)
}

func registerGameMutationRoutes(routes *routeRegistrar, handler *Handler) {
	routes.authorized("POST /v1/games", handler.CreateGame)
	routes.authorized("PUT /v1/games/{gameID}/status", handler.UpdateGameStatus)
	routes.authorized("POST /v1/games/{gameID}/teams", handler.AddTeam)
	routes.authorized("DELETE /v1/games/{gameID}/teams/{teamID}", handler.RemoveTeam)
	routes.authorized("POST /v1/games/{gameID}/matches", handler.AddMatch)
	routes.authorized("DELETE /v1/games/{gameID}/matches/{matchIndex}", handler.DeleteMatch)
}

func registerViewerRoutes(routes *routeRegistrar, handler *Handler) {
	routes.public("GET /v1/games/{gameID}/viewers", handler.ListViewers)
	routes.authorized("POST /v1/games/{gameID}/viewers", handler.Heartbeat)
}
