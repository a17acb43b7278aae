package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/realtime"
)

func readFrame(t *testing.T, conn *websocket.Conn) realtime.Frame {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame realtime.Frame
	if err := sonic.Unmarshal(raw, &frame); err != nil {
		t.Fatalf("unmarshal frame %q: %v", raw, err)
	}
	return frame
}

func TestSubscribeStreamsSnapshotThenChanges(t *testing.T) {
	api := newTestAPI(t)
	gameID := api.seedActiveGame(t)

	server := httptest.NewServer(api.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/games/" + gameID + "/subscribe"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	first := readFrame(t, conn)
	if first.Type != "game.updated" || first.GameID != gameID || first.Game == nil {
		t.Fatalf("unexpected snapshot frame: %+v", first)
	}

	rec, _ := api.do(t, http.MethodPost, "/v1/games/"+gameID+"/matches", "token-alice", map[string]any{
		"home_team_id": "ars",
		"away_team_id": "che",
		"home_score":   1,
		"away_score":   1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add match status=%d", rec.Code)
	}

	next := readFrame(t, conn)
	if next.Type != "game.updated" || next.Game == nil || len(next.Game.Matches) != 1 {
		t.Fatalf("unexpected change frame: %+v", next)
	}

	rec, _ = api.do(t, http.MethodPost, "/v1/games/"+gameID+"/viewers", "token-bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("heartbeat status=%d", rec.Code)
	}
	viewers := readFrame(t, conn)
	if viewers.Type != "viewers.updated" || len(viewers.Viewers) != 1 {
		t.Fatalf("unexpected viewers frame: %+v", viewers)
	}
}

func TestSubscribeUnknownGame(t *testing.T) {
	api := newTestAPI(t)
	server := httptest.NewServer(api.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/games/missing/subscribe"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}

// afterReadRepository runs a hook once, right after the next armed GetByID returns.
type afterReadRepository struct {
	game.Repository
	armed atomic.Bool
	hook  func()
}

func (r *afterReadRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	item, ok, err := r.Repository.GetByID(ctx, gameID)
	if r.armed.CompareAndSwap(true, false) && r.hook != nil {
		r.hook()
	}
	return item, ok, err
}

func TestSubscribeDeliversCommitRacingSnapshot(t *testing.T) {
	repo := &afterReadRepository{}
	api := newTestAPIWithRepo(t, func(inner game.Repository) game.Repository {
		repo.Repository = inner
		return repo
	})
	gameID := api.seedActiveGame(t)

	var addStatus atomic.Int32
	repo.hook = func() {
		body := `{"home_team_id":"ars","away_team_id":"che","home_score":2,"away_score":0}`
		req := httptest.NewRequest(http.MethodPost, "/v1/games/"+gameID+"/matches", bytes.NewBufferString(body))
		req.Header.Set("Authorization", "Bearer token-alice")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		addStatus.Store(int32(rec.Code))
	}
	repo.armed.Store(true)

	server := httptest.NewServer(api.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/games/" + gameID + "/subscribe"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	snapshot := readFrame(t, conn)
	if snapshot.Game == nil {
		t.Fatalf("expected snapshot frame, got %+v", snapshot)
	}
	if got := addStatus.Load(); got != http.StatusOK {
		t.Fatalf("add match during snapshot read status=%d", got)
	}
	if len(snapshot.Game.Matches) != 0 {
		t.Fatalf("expected snapshot read before the commit, got %d matches", len(snapshot.Game.Matches))
	}

	change := readFrame(t, conn)
	if change.Type != "game.updated" || change.Game == nil || len(change.Game.Matches) != 1 {
		t.Fatalf("expected change frame carrying the racing match, got %+v", change)
	}
}
