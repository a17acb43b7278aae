package game

import (
	"reflect"
	"testing"
)

func TestComputeStandings(t *testing.T) {
	teams := []TeamEntry{
		{Team: Team{ID: "a", Name: "A"}},
		{Team: Team{ID: "b", Name: "B"}},
		{Team: Team{ID: "c", Name: "C"}},
	}
	matches := []MatchEntry{
		{HomeTeamID: "a", AwayTeamID: "b", HomeScore: 2, AwayScore: 1},
		{HomeTeamID: "a", AwayTeamID: "c", HomeScore: 0, AwayScore: 0},
		{HomeTeamID: "a", AwayTeamID: "gone", HomeScore: 5, AwayScore: 0},
	}

	rows := ComputeStandings(teams, matches)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	a, b, c := rows[0], rows[1], rows[2]
	if a.TeamID != "a" || a.Points != 4 || a.Won != 1 || a.Drawn != 1 || a.Played != 2 {
		t.Fatalf("unexpected row a: %+v", a)
	}
	if a.GoalsFor != 2 || a.GoalsAgainst != 1 || a.GoalDifference != 1 {
		t.Fatalf("unexpected goals for a: %+v", a)
	}
	if b.Points != 0 || b.Lost != 1 || b.Played != 1 {
		t.Fatalf("unexpected row b: %+v", b)
	}
	if c.Points != 1 || c.Drawn != 1 {
		t.Fatalf("unexpected row c: %+v", c)
	}

	var played, points int
	for _, row := range rows {
		played += row.Played
		points += row.Points
		if row.Played != row.Won+row.Drawn+row.Lost {
			t.Fatalf("played mismatch for %s: %+v", row.TeamID, row)
		}
	}
	if played != 4 {
		t.Fatalf("expected played sum 2*valid matches, got %d", played)
	}
	if points != 3+2 {
		t.Fatalf("unexpected points sum %d", points)
	}
}

func TestComputeStandings_NoMatches(t *testing.T) {
	rows := ComputeStandings([]TeamEntry{{Team: Team{ID: "x"}}}, nil)
	if len(rows) != 1 || rows[0] != (Standing{TeamID: "x"}) {
		t.Fatalf("expected zeroed row, got %+v", rows)
	}
}

func TestSortStandings(t *testing.T) {
	rows := []Standing{
		{TeamID: "low", Points: 1, GoalDifference: 5, GoalsFor: 9},
		{TeamID: "gf", Points: 4, GoalDifference: 2, GoalsFor: 3},
		{TeamID: "gd", Points: 4, GoalDifference: 3, GoalsFor: 1},
		{TeamID: "gf-more", Points: 4, GoalDifference: 2, GoalsFor: 6},
		{TeamID: "tie-first", Points: 0},
		{TeamID: "tie-second", Points: 0},
	}

	got := SortStandings(rows)
	want := []string{"gd", "gf-more", "gf", "low", "tie-first", "tie-second"}
	for i, id := range want {
		if got[i].TeamID != id {
			t.Fatalf("position %d: expected %s, got %s", i+1, id, got[i].TeamID)
		}
		if got[i].Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, got[i].Position)
		}
	}
	if rows[0].TeamID != "low" {
		t.Fatalf("input must not be reordered")
	}
}

func TestComputeStandings_GoalsBalanceAndDeterminism(t *testing.T) {
	teams := []TeamEntry{
		{Team: Team{ID: "a"}},
		{Team: Team{ID: "b"}},
		{Team: Team{ID: "c"}},
		{Team: Team{ID: "d"}},
	}

	tests := []struct {
		name    string
		matches []MatchEntry
	}{
		{name: "no matches"},
		{
			name: "draws only",
			matches: []MatchEntry{
				{HomeTeamID: "a", AwayTeamID: "b", HomeScore: 1, AwayScore: 1},
				{HomeTeamID: "c", AwayTeamID: "d", HomeScore: 0, AwayScore: 0},
			},
		},
		{
			name: "mixed results",
			matches: []MatchEntry{
				{HomeTeamID: "a", AwayTeamID: "b", HomeScore: 3, AwayScore: 1},
				{HomeTeamID: "b", AwayTeamID: "c", HomeScore: 2, AwayScore: 2},
				{HomeTeamID: "d", AwayTeamID: "a", HomeScore: 4, AwayScore: 0},
				{HomeTeamID: "c", AwayTeamID: "d", HomeScore: 1, AwayScore: 3},
			},
		},
		{
			name: "removed teams",
			matches: []MatchEntry{
				{HomeTeamID: "a", AwayTeamID: "gone", HomeScore: 7, AwayScore: 0},
				{HomeTeamID: "gone", AwayTeamID: "b", HomeScore: 2, AwayScore: 2},
				{HomeTeamID: "c", AwayTeamID: "d", HomeScore: 1, AwayScore: 0},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := ComputeStandings(teams, tc.matches)

			var goalsFor, goalsAgainst, wins, losses int
			for _, row := range rows {
				goalsFor += row.GoalsFor
				goalsAgainst += row.GoalsAgainst
				wins += row.Won
				losses += row.Lost
			}
			if goalsFor != goalsAgainst {
				t.Fatalf("goals for %d != goals against %d", goalsFor, goalsAgainst)
			}
			if wins != losses {
				t.Fatalf("wins %d != losses %d", wins, losses)
			}

			again := ComputeStandings(teams, tc.matches)
			if !reflect.DeepEqual(rows, again) {
				t.Fatalf("standings differ between calls:\n%+v\n%+v", rows, again)
			}
			if !reflect.DeepEqual(SortStandings(rows), SortStandings(again)) {
				t.Fatalf("sorted standings differ between calls")
			}
		})
	}
}
