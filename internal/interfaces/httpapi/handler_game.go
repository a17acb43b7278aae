package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/game-tracker/internal/usecase"
)

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createGameRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.CreateGame(ctx, usecase.CreateGameInput{
		OwnerID:     principal.UserID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(item))
}

func (h *Handler) UpdateGameStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGameStatus")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req updateGameStatusRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.UpdateGameStatus(ctx, usecase.UpdateGameStatusInput{
		GameID: gameID,
		Status: req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update game status failed", "game_id", gameID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) AddTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddTeam")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req addTeamRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.gameService.AddTeam(ctx, usecase.AddTeamInput{
		GameID:   gameID,
		TeamID:   req.TeamID,
		TeamName: req.TeamName,
		TeamLogo: req.TeamLogo,
		Player:   req.Player,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add team failed", "game_id", gameID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveTeam")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	item, err := h.gameService.RemoveTeam(ctx, usecase.RemoveTeamInput{GameID: gameID, TeamID: teamID})
	if err != nil {
		h.logger.WarnContext(ctx, "remove team failed", "game_id", gameID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) AddMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMatch")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req addMatchRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.AddMatchInput{
		GameID:     gameID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		HomeScore:  *req.HomeScore,
		AwayScore:  *req.AwayScore,
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := parseMatchDate(req.Date)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		input.Date = &date
	}

	item, err := h.gameService.AddMatch(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "add match failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	index, err := strconv.Atoi(strings.TrimSpace(r.PathValue("matchIndex")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: match index must be an integer", usecase.ErrInvalidInput))
		return
	}

	item, err := h.gameService.DeleteMatch(ctx, usecase.DeleteMatchInput{GameID: gameID, MatchIndex: index})
	if err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "game_id", gameID, "match_index", index, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	input, err := parseListGamesQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.gameService.ListGamesByOwner(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "owner_id", input.OwnerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gameSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToSummaryDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	rows, err := h.gameService.GetStandings(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(rows))
}

func parseListGamesQuery(r *http.Request) (usecase.ListGamesInput, error) {
	query := r.URL.Query()
	input := usecase.ListGamesInput{OwnerID: strings.TrimSpace(query.Get("owner"))}

	var err error
	if input.After, err = parseQueryTime(query.Get("after")); err != nil {
		return usecase.ListGamesInput{}, fmt.Errorf("%w: after: %v", usecase.ErrInvalidInput, err)
	}
	if input.Before, err = parseQueryTime(query.Get("before")); err != nil {
		return usecase.ListGamesInput{}, fmt.Errorf("%w: before: %v", usecase.ErrInvalidInput, err)
	}

	switch strings.ToLower(strings.TrimSpace(query.Get("order"))) {
	case "", "asc":
	case "desc":
		input.Descending = true
	default:
		return usecase.ListGamesInput{}, fmt.Errorf("%w: order must be asc or desc", usecase.ErrInvalidInput)
	}

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.ListGamesInput{}, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput)
		}
		input.Limit = limit
	}
	return input, nil
}

// parseQueryTime accepts RFC3339 or unix seconds.
func parseQueryTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseMatchDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return v.UTC(), nil
	}
	if v, err := time.Parse(time.DateOnly, raw); err == nil {
		return v, nil
	}
	return time.Time{}, fmt.Errorf("%w: date must be RFC3339 or YYYY-MM-DD", usecase.ErrInvalidInput)
}
