package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
	now   func() time.Time
}

func NewGameRepository(seed ...game.Game) *GameRepository {
	items := make(map[string]game.Game, len(seed))
	for _, g := range seed {
		items[g.ID] = g.Clone()
	}
	return &GameRepository{items: items, now: time.Now}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}
	return g.Clone(), true, nil
}

func (r *GameRepository) Create(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[g.ID]; exists {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	stored := g.Clone()
	stored.Version = 1
	r.items[g.ID] = stored
	return nil
}

func (r *GameRepository) Update(_ context.Context, gameID string, changes game.Changes, cond game.Condition) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[gameID]
	if !ok || !cond.Matches(current) {
		return game.Game{}, game.ErrConditionFailed
	}

	next := changes.Apply(current)
	next.Version = current.Version + 1
	next.UpdatedAt = r.now().UTC()
	r.items[gameID] = next
	return next.Clone(), nil
}

func (r *GameRepository) ListByOwner(_ context.Context, ownerID string, opts game.ListOptions) ([]game.Game, error) {
	r.mu.RLock()
	out := make([]game.Game, 0)
	for _, g := range r.items {
		if g.OwnerID != ownerID {
			continue
		}
		if !opts.After.IsZero() && !g.CreatedAt.After(opts.After) {
			continue
		}
		if !opts.Before.IsZero() && !g.CreatedAt.Before(opts.Before) {
			continue
		}
		out = append(out, g.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if opts.Descending {
				return out[i].ID > out[j].ID
			}
			return out[i].ID < out[j].ID
		}
		if opts.Descending {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
