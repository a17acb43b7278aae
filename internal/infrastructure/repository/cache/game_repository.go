package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	basecache "github.com/riskibarqy/game-tracker/internal/platform/cache"
)

type cachedGame struct {
	value  game.Game
	exists bool
}

// GameRepository serves GetByID from cache. Writes always go to next and
// drop the cached copy.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store[cachedGame]
}

func NewGameRepository(next game.Repository, ttl time.Duration) *GameRepository {
	return &GameRepository{next: next, cache: basecache.NewStore[cachedGame](ttl)}
}

func gameKey(gameID string) string {
	return "game:id:" + gameID
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, gameKey(gameID), func(ctx context.Context) (cachedGame, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return cachedGame{}, err
		}
		return cachedGame{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}
	return cached.value.Clone(), cached.exists, nil
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) error {
	if err := r.next.Create(ctx, g); err != nil {
		return err
	}
	r.cache.Delete(ctx, gameKey(g.ID))
	return nil
}

func (r *GameRepository) Update(ctx context.Context, gameID string, changes game.Changes, cond game.Condition) (game.Game, error) {
	updated, err := r.next.Update(ctx, gameID, changes, cond)
	if err == nil || errors.Is(err, game.ErrConditionFailed) {
		r.cache.Delete(ctx, gameKey(gameID))
	}
	if err != nil {
		return game.Game{}, err
	}
	return updated, nil
}

func (r *GameRepository) ListByOwner(ctx context.Context, ownerID string, opts game.ListOptions) ([]game.Game, error) {
	return r.next.ListByOwner(ctx, ownerID, opts)
}
