package game

import (
	"errors"
	"testing"
	"time"
)

func sampleGame(status Status) Game {
	return Game{
		ID:      "g1",
		Name:    "Sunday league",
		OwnerID: "u1",
		Status:  status,
		Teams: []TeamEntry{
			{Team: Team{ID: "ars", Name: "Arsenal"}, Player: "alice"},
			{Team: Team{ID: "che", Name: "Chelsea"}, Player: "bob"},
		},
		Matches: []MatchEntry{
			{HomeTeamID: "ars", AwayTeamID: "che", HomeScore: 2, AwayScore: 1},
			{HomeTeamID: "che", AwayTeamID: "ars", HomeScore: 0, AwayScore: 0},
		},
	}
}

func TestAddTeam(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Game, *TeamEntry)
		targetErr error
	}{
		{
			name:   "adds to draft",
			mutate: func(_ *Game, _ *TeamEntry) {},
		},
		{
			name: "duplicate team",
			mutate: func(_ *Game, entry *TeamEntry) {
				entry.Team.ID = "ars"
			},
			targetErr: ErrDuplicateTeam,
		},
		{
			name: "game already active",
			mutate: func(g *Game, _ *TeamEntry) {
				g.Status = StatusActive
			},
			targetErr: ErrWrongStatus,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := sampleGame(StatusDraft)
			entry := TeamEntry{Team: Team{ID: "liv", Name: "Liverpool"}}
			tc.mutate(&g, &entry)

			teams, err := AddTeam(g, entry)
			if tc.targetErr != nil {
				if !errors.Is(err, tc.targetErr) {
					t.Fatalf("expected %v, got %v", tc.targetErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(teams) != 3 || teams[2].Team.ID != "liv" {
				t.Fatalf("unexpected teams: %+v", teams)
			}
			if len(g.Teams) != 2 {
				t.Fatalf("input roster must not change")
			}
		})
	}
}

func TestRemoveTeam(t *testing.T) {
	g := sampleGame(StatusDraft)

	teams, err := RemoveTeam(g, "ars")
	if err != nil {
		t.Fatalf("remove team: %v", err)
	}
	if len(teams) != 1 || teams[0].Team.ID != "che" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
	if len(g.Matches) != 2 {
		t.Fatalf("matches must stay untouched")
	}

	if _, err := RemoveTeam(g, "liv"); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
	if _, err := RemoveTeam(sampleGame(StatusCompleted), "ars"); !errors.Is(err, ErrWrongStatus) {
		t.Fatalf("expected ErrWrongStatus, got %v", err)
	}
}

func TestAddMatch(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    Status
		input     MatchInput
		targetErr error
	}{
		{name: "valid", status: StatusActive, input: MatchInput{HomeTeamID: "ars", AwayTeamID: "che", HomeScore: 3}},
		{name: "same team", status: StatusActive, input: MatchInput{HomeTeamID: "ars", AwayTeamID: "ars"}, targetErr: ErrInvalidMatch},
		{name: "unknown away", status: StatusActive, input: MatchInput{HomeTeamID: "ars", AwayTeamID: "liv"}, targetErr: ErrTeamNotFound},
		{name: "negative score", status: StatusActive, input: MatchInput{HomeTeamID: "ars", AwayTeamID: "che", AwayScore: -1}, targetErr: ErrInvalidMatch},
		{name: "draft game", status: StatusDraft, input: MatchInput{HomeTeamID: "ars", AwayTeamID: "che"}, targetErr: ErrWrongStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches, err := AddMatch(sampleGame(tc.status), tc.input, now)
			if tc.targetErr != nil {
				if !errors.Is(err, tc.targetErr) {
					t.Fatalf("expected %v, got %v", tc.targetErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			last := matches[len(matches)-1]
			if len(matches) != 3 || last.HomeScore != 3 {
				t.Fatalf("unexpected matches: %+v", matches)
			}
			if !last.Date.Equal(now) || !last.CreatedAt.Equal(now) {
				t.Fatalf("expected date and createdAt to default to now, got %+v", last)
			}
		})
	}
}

func TestDeleteMatch(t *testing.T) {
	g := sampleGame(StatusActive)

	matches, err := DeleteMatch(g, 0)
	if err != nil {
		t.Fatalf("delete match: %v", err)
	}
	if len(matches) != 1 || matches[0].HomeTeamID != "che" {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	for _, index := range []int{-1, 2} {
		if _, err := DeleteMatch(g, index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
	if _, err := DeleteMatch(sampleGame(StatusCompleted), 0); !errors.Is(err, ErrWrongStatus) {
		t.Fatalf("expected ErrWrongStatus, got %v", err)
	}
}
