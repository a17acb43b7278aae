package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/game-tracker/internal/config"
	cacherepo "github.com/riskibarqy/game-tracker/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		ServiceName:        "game-tracker-api",
		HTTPAddr:           "127.0.0.1:0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		ShutdownTimeout:    time.Second,
		MutationTimeout:    time.Second,
		GameStore:          config.StoreMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		ViewerStore:        config.StoreMemory,
		RealtimeWorkers:    2,
		RealtimeBuffer:     4,
		PresenceWindow:     10 * time.Minute,
		ViewerRetention:    24 * time.Hour,
		ViewerReapInterval: time.Hour,
		AccountBaseURL:     "http://127.0.0.1:1",
		AccountTimeout:     time.Second,
		MetricsEnabled:     true,
	}
}

func TestNewGameRepositoryWrapsCache(t *testing.T) {
	cfg := memoryConfig()

	repo, closeFn, err := newGameRepository(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("newGameRepository: %v", err)
	}
	defer closeFn()
	if _, ok := repo.(*cacherepo.GameRepository); !ok {
		t.Fatalf("expected cache decorator, got %T", repo)
	}

	cfg.CacheEnabled = false
	repo, _, err = newGameRepository(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("newGameRepository: %v", err)
	}
	if _, ok := repo.(*memory.GameRepository); !ok {
		t.Fatalf("expected memory repository, got %T", repo)
	}
}

func TestNewViewerRepositoryFallsBackToMemory(t *testing.T) {
	cfg := memoryConfig()
	cfg.ViewerStore = config.StoreRedis

	if _, ok := newViewerRepository(cfg, nil).(*memory.ViewerRepository); !ok {
		t.Fatalf("expected memory viewer repository without a redis client")
	}
}

func TestAppServesHealthAndMetrics(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "game_tracker_http_requests_total") {
		t.Fatalf("expected request metrics to be exported")
	}
}

func TestAppRunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not stop after cancel")
	}
}
