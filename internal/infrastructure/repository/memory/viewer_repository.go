package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
)

type ViewerRepository struct {
	mu    sync.RWMutex
	items map[string]viewer.Viewer
}

func NewViewerRepository() *ViewerRepository {
	return &ViewerRepository{items: make(map[string]viewer.Viewer)}
}

func (r *ViewerRepository) Upsert(_ context.Context, v viewer.Viewer) error {
	if err := v.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := viewerKey(v.GameID, v.UserID)
	if existing, ok := r.items[key]; ok {
		v.CreatedAt = existing.CreatedAt
	}
	r.items[key] = v
	return nil
}

func (r *ViewerRepository) ListActive(_ context.Context, gameID string, since int64) ([]viewer.Viewer, error) {
	r.mu.RLock()
	out := make([]viewer.Viewer, 0)
	for _, v := range r.items {
		if v.GameID == gameID && v.LastSeen >= since {
			out = append(out, v)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSeen == out[j].LastSeen {
			return out[i].UserID < out[j].UserID
		}
		return out[i].LastSeen < out[j].LastSeen
	})
	return out, nil
}

func (r *ViewerRepository) Reap(_ context.Context, before int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, v := range r.items {
		if v.LastSeen < before {
			delete(r.items, key)
			removed++
		}
	}
	return removed, nil
}

func viewerKey(gameID, userID string) string {
	return gameID + "::" + userID
}
