package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/game-tracker/internal/config"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

type capturedBatches struct {
	mu       sync.Mutex
	bodies   [][]byte
	lastAuth string
}

func (c *capturedBatches) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.lastAuth = r.Header.Get("Authorization")
		c.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
}

func TestInitBetterStackLogger_ShipsErrorLogs(t *testing.T) {
	t.Parallel()

	captured := &capturedBatches{}
	server := httptest.NewServer(captured.handler(t))
	defer server.Close()

	cfg := config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: server.URL,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "game-tracker-api",
		AppEnv:              config.EnvDev,
	}

	logger, shutdown, err := InitBetterStackLogger(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "commit failed", "game_id", "g-1")
	logger.ErrorContext(context.Background(), "commit failed", "game_id", "g-2")
	logger.InfoContext(context.Background(), "below min level")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if captured.lastAuth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", captured.lastAuth)
	}

	var records []map[string]any
	for _, body := range captured.bodies {
		var batch []map[string]any
		if err := sonic.Unmarshal(body, &batch); err != nil {
			t.Fatalf("decode batch %s: %v", body, err)
		}
		records = append(records, batch...)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 shipped records, got %d", len(records))
	}
	if records[0]["game_id"] != "g-1" {
		t.Fatalf("unexpected first record: %v", records[0])
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	base := logging.NewNop()
	logger, shutdown, err := InitBetterStackLogger(config.Config{}, base)
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}
	if logger != base {
		t.Fatalf("expected base logger when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestEncodeBatch(t *testing.T) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encodeBatch(buf, [][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`)})
	if got := buf.String(); got != `[{"a":1},{"b":2}]` {
		t.Fatalf("unexpected batch: %s", got)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	if got := normalizeBetterStackEndpoint("in.logs.example.com"); got != "https://in.logs.example.com" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
	if got := normalizeBetterStackEndpoint(" http://local:9000 "); got != "http://local:9000" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
	if got := normalizeBetterStackEndpoint(""); got != "" {
		t.Fatalf("expected empty endpoint, got %s", got)
	}
}
