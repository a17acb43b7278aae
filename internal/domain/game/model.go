package game

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
)

var AllStatuses = map[Status]struct{}{
	StatusDraft:     {},
	StatusActive:    {},
	StatusCompleted: {},
	StatusDeleted:   {},
}

func ParseStatus(v string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(v)))
	if _, ok := AllStatuses[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return status, nil
}

// Team is the snapshot of a team taken when it joined the game.
type Team struct {
	ID   string
	Name string
	Logo string
}

type TeamEntry struct {
	Team   Team
	Player string
}

// MatchEntry is a played fixture between two teams of the game. Team ids are
// checked against the roster only when the match is recorded.
type MatchEntry struct {
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Date       time.Time
	CreatedAt  time.Time
}

// Game is an ad-hoc tournament owned by its creator.
type Game struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Status      Status
	Teams       []TeamEntry
	Matches     []MatchEntry
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("game name is required")
	}
	if strings.TrimSpace(g.OwnerID) == "" {
		return fmt.Errorf("game owner is required")
	}
	if _, ok := AllStatuses[g.Status]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, g.Status)
	}
	return nil
}

func (g Game) HasTeam(teamID string) bool {
	for _, entry := range g.Teams {
		if entry.Team.ID == teamID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with g.
func (g Game) Clone() Game {
	out := g
	out.Teams = append([]TeamEntry(nil), g.Teams...)
	out.Matches = append([]MatchEntry(nil), g.Matches...)
	return out
}
