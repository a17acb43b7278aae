package game

import "sort"

const (
	PointsWin  = 3
	PointsDraw = 1
)

// Standing is one team's aggregated record. Position is set by SortStandings.
type Standing struct {
	TeamID         string
	TeamName       string
	Position       int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// ComputeStandings folds matches in order into one row per team, in roster
// order. Matches that reference a team outside the roster are skipped.
func ComputeStandings(teams []TeamEntry, matches []MatchEntry) []Standing {
	rows := make([]Standing, len(teams))
	indexByTeam := make(map[string]int, len(teams))
	for i, entry := range teams {
		rows[i] = Standing{TeamID: entry.Team.ID, TeamName: entry.Team.Name}
		indexByTeam[entry.Team.ID] = i
	}

	for _, match := range matches {
		homeIdx, okHome := indexByTeam[match.HomeTeamID]
		awayIdx, okAway := indexByTeam[match.AwayTeamID]
		if !okHome || !okAway {
			continue
		}
		home := &rows[homeIdx]
		away := &rows[awayIdx]

		home.Played++
		away.Played++
		home.GoalsFor += match.HomeScore
		home.GoalsAgainst += match.AwayScore
		away.GoalsFor += match.AwayScore
		away.GoalsAgainst += match.HomeScore

		switch {
		case match.HomeScore > match.AwayScore:
			home.Won++
			home.Points += PointsWin
			away.Lost++
		case match.HomeScore < match.AwayScore:
			away.Won++
			away.Points += PointsWin
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points += PointsDraw
			away.Points += PointsDraw
		}
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}
	return rows
}

// SortStandings returns a ranked copy: points desc, goal difference desc, goals
// for desc. Full ties keep input order.
func SortStandings(rows []Standing) []Standing {
	out := append([]Standing(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
