package game

import (
	"fmt"
	"strings"
	"time"
)

// MatchInput is a match result as reported by the caller.
type MatchInput struct {
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Date       time.Time
}

func requireStatus(g Game, want Status, action string) error {
	if g.Status != want {
		return fmt.Errorf("%w: game must be %s to %s, got %s", ErrWrongStatus, want, action, g.Status)
	}
	return nil
}

// AddTeam returns the roster with entry appended.
func AddTeam(g Game, entry TeamEntry) ([]TeamEntry, error) {
	if err := requireStatus(g, StatusDraft, "edit teams"); err != nil {
		return nil, err
	}
	teamID := strings.TrimSpace(entry.Team.ID)
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}
	if g.HasTeam(teamID) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, teamID)
	}

	entry.Team.ID = teamID
	out := make([]TeamEntry, 0, len(g.Teams)+1)
	out = append(out, g.Teams...)
	return append(out, entry), nil
}

// RemoveTeam returns the roster without teamID. Matches are not touched.
func RemoveTeam(g Game, teamID string) ([]TeamEntry, error) {
	if err := requireStatus(g, StatusDraft, "edit teams"); err != nil {
		return nil, err
	}
	teamID = strings.TrimSpace(teamID)
	if !g.HasTeam(teamID) {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}

	out := make([]TeamEntry, 0, len(g.Teams)-1)
	for _, entry := range g.Teams {
		if entry.Team.ID == teamID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// AddMatch returns the match list with the new result appended. A zero Date
// defaults to now.
func AddMatch(g Game, input MatchInput, now time.Time) ([]MatchEntry, error) {
	if err := requireStatus(g, StatusActive, "record matches"); err != nil {
		return nil, err
	}
	home := strings.TrimSpace(input.HomeTeamID)
	away := strings.TrimSpace(input.AwayTeamID)
	if !g.HasTeam(home) {
		return nil, fmt.Errorf("%w: home team %s", ErrTeamNotFound, home)
	}
	if !g.HasTeam(away) {
		return nil, fmt.Errorf("%w: away team %s", ErrTeamNotFound, away)
	}
	if home == away {
		return nil, fmt.Errorf("%w: home and away team must differ", ErrInvalidMatch)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, fmt.Errorf("%w: scores must be >= 0", ErrInvalidMatch)
	}

	date := input.Date
	if date.IsZero() {
		date = now
	}
	out := make([]MatchEntry, 0, len(g.Matches)+1)
	out = append(out, g.Matches...)
	return append(out, MatchEntry{
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  input.HomeScore,
		AwayScore:  input.AwayScore,
		Date:       date,
		CreatedAt:  now,
	}), nil
}

// DeleteMatch returns the match list without the entry at index.
func DeleteMatch(g Game, index int) ([]MatchEntry, error) {
	if err := requireStatus(g, StatusActive, "delete matches"); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(g.Matches) {
		return nil, fmt.Errorf("%w: index=%d len=%d", ErrIndexOutOfRange, index, len(g.Matches))
	}

	out := make([]MatchEntry, 0, len(g.Matches)-1)
	out = append(out, g.Matches[:index]...)
	return append(out, g.Matches[index+1:]...), nil
}
