package gameevent

import (
	"context"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
)

type Type string

const (
	TypeGameUpdated    Type = "game.updated"
	TypeViewersUpdated Type = "viewers.updated"
)

// Event is a change notification addressed to subscribers of one game.
// Exactly one of Game or Viewers is set, matching Type.
type Event struct {
	Type       Type
	GameID     string
	Game       *game.Game
	Viewers    []viewer.Viewer
	OccurredAt time.Time
}

func GameUpdated(g game.Game, at time.Time) Event {
	snapshot := g.Clone()
	return Event{Type: TypeGameUpdated, GameID: g.ID, Game: &snapshot, OccurredAt: at}
}

func ViewersUpdated(gameID string, viewers []viewer.Viewer, at time.Time) Event {
	return Event{
		Type:       TypeViewersUpdated,
		GameID:     gameID,
		Viewers:    append([]viewer.Viewer(nil), viewers...),
		OccurredAt: at,
	}
}

// Publisher delivers events to subscribers whose game id matches exactly.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
