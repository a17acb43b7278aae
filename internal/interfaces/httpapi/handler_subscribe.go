package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/realtime"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS middleware owns origin policy for the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Subscribe streams change frames for one game over a websocket. The first
// frame is the current game snapshot.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gameID := strings.TrimSpace(r.PathValue("gameID"))

	// Subscribe before reading the snapshot so a commit landing in between
	// still reaches the client as a change frame.
	sub, err := h.subscriber.Subscribe(gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "subscribe failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	defer sub.Close()

	item, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	initial, err := realtime.EncodeFrame(gameevent.GameUpdated(item, time.Now().UTC()))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.WarnContext(ctx, "websocket upgrade failed", "game_id", gameID, "error", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go readUntilClose(conn, closed)

	if err := writeFrame(conn, initial); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case frame, ok := <-sub.Frames():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := writeFrame(conn, frame); err != nil {
				h.logger.DebugContext(ctx, "websocket write failed", "game_id", gameID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, frame []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// readUntilClose discards client messages and closes done once the peer goes away.
func readUntilClose(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
