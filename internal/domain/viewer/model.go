package viewer

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PresenceWindow is how far back a heartbeat still counts as watching.
	PresenceWindow = 10 * time.Minute
	// ClientStaleAfter is the staleness threshold clients apply when rendering
	// the viewer list. It is chosen independently of PresenceWindow.
	ClientStaleAfter = 5 * time.Minute
	// DefaultRetention is how long a viewer record survives after its last
	// heartbeat before the store reaps it.
	DefaultRetention = 24 * time.Hour
)

// Viewer records the last heartbeat of a user watching a game.
type Viewer struct {
	GameID    string
	UserID    string
	Username  string
	LastSeen  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v Viewer) Validate() error {
	if strings.TrimSpace(v.GameID) == "" {
		return fmt.Errorf("viewer game id is required")
	}
	if strings.TrimSpace(v.UserID) == "" {
		return fmt.Errorf("viewer user id is required")
	}
	if v.LastSeen <= 0 {
		return fmt.Errorf("viewer last seen must be > 0")
	}
	return nil
}

// ActiveSince is the inclusive lower bound on LastSeen for a window ending at now.
func ActiveSince(now time.Time, window time.Duration) int64 {
	return now.Add(-window).Unix()
}

func (v Viewer) StaleAt(now time.Time, after time.Duration) bool {
	return now.Unix()-v.LastSeen > int64(after/time.Second)
}
