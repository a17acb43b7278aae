package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	gamemock "github.com/riskibarqy/game-tracker/internal/mocks/domain/game"
	"github.com/stretchr/testify/mock"
)

func TestGameRepository_GetByIDIsCachedUntilUpdate(t *testing.T) {
	ctx := context.Background()
	next := gamemock.NewRepository(t)
	repo := NewGameRepository(next, time.Minute)

	stored := game.Game{ID: "g1", Status: game.StatusDraft, Version: 1}
	next.On("GetByID", mock.Anything, "g1").Return(stored, true, nil).Once()

	for i := 0; i < 3; i++ {
		got, ok, err := repo.GetByID(ctx, "g1")
		if err != nil || !ok || got.Version != 1 {
			t.Fatalf("unexpected read %d: %+v ok=%t err=%v", i, got, ok, err)
		}
	}

	active := game.StatusActive
	updated := game.Game{ID: "g1", Status: game.StatusActive, Version: 2}
	next.On("Update", mock.Anything, "g1", mock.Anything, mock.Anything).Return(updated, nil).Once()
	if _, err := repo.Update(ctx, "g1", game.Changes{Status: &active}, game.StatusIs(game.StatusDraft)); err != nil {
		t.Fatalf("update: %v", err)
	}

	next.On("GetByID", mock.Anything, "g1").Return(updated, true, nil).Once()
	got, _, err := repo.GetByID(ctx, "g1")
	if err != nil || got.Version != 2 {
		t.Fatalf("expected fresh read after update, got %+v err=%v", got, err)
	}
}

func TestGameRepository_ConditionFailureDropsCache(t *testing.T) {
	ctx := context.Background()
	next := gamemock.NewRepository(t)
	repo := NewGameRepository(next, time.Minute)

	next.On("GetByID", mock.Anything, "g1").Return(game.Game{ID: "g1", Version: 1}, true, nil).Once()
	if _, _, err := repo.GetByID(ctx, "g1"); err != nil {
		t.Fatalf("get: %v", err)
	}

	next.On("Update", mock.Anything, "g1", mock.Anything, mock.Anything).Return(game.Game{}, game.ErrConditionFailed).Once()
	status := game.StatusDeleted
	if _, err := repo.Update(ctx, "g1", game.Changes{Status: &status}, game.Condition{}); err != game.ErrConditionFailed {
		t.Fatalf("expected condition failure, got %v", err)
	}

	next.On("GetByID", mock.Anything, "g1").Return(game.Game{ID: "g1", Version: 5}, true, nil).Once()
	got, _, _ := repo.GetByID(ctx, "g1")
	if got.Version != 5 {
		t.Fatalf("expected reload after conflict, got version %d", got.Version)
	}
}

func TestGameRepository_CachesMissingGame(t *testing.T) {
	ctx := context.Background()
	next := gamemock.NewRepository(t)
	repo := NewGameRepository(next, time.Minute)

	next.On("GetByID", mock.Anything, "missing").Return(game.Game{}, false, nil).Once()
	for i := 0; i < 2; i++ {
		if _, ok, err := repo.GetByID(ctx, "missing"); ok || err != nil {
			t.Fatalf("expected missing game, ok=%t err=%v", ok, err)
		}
	}
}
