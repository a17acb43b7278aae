package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/game-tracker/internal/usecase"
)

// Heartbeat records the caller as watching the game.
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Heartbeat")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	if _, err := h.gameService.GetGame(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	viewers, err := h.presenceService.Heartbeat(ctx, usecase.HeartbeatInput{
		GameID:   gameID,
		UserID:   principal.UserID,
		Username: principal.DisplayName(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "viewer heartbeat failed", "game_id", gameID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, viewersToDTO(gameID, viewers, h.presenceService.Window(), time.Now()))
}

func (h *Handler) ListViewers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListViewers")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var since int64
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: since must be unix seconds", usecase.ErrInvalidInput))
			return
		}
		since = parsed
	}

	viewers, err := h.presenceService.ListViewers(ctx, gameID, since)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, viewersToDTO(gameID, viewers, h.presenceService.Window(), time.Now()))
}
