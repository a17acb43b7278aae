package httpapi

import (
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
)

type createGameRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type updateGameStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type addTeamRequest struct {
	TeamID   string `json:"team_id" validate:"required,max=64"`
	TeamName string `json:"team_name" validate:"required,max=120"`
	TeamLogo string `json:"team_logo" validate:"omitempty,max=512"`
	Player   string `json:"player" validate:"omitempty,max=120"`
}

type addMatchRequest struct {
	HomeTeamID string `json:"home_team_id" validate:"required"`
	AwayTeamID string `json:"away_team_id" validate:"required"`
	HomeScore  *int   `json:"home_score" validate:"required,gte=0"`
	AwayScore  *int   `json:"away_score" validate:"required,gte=0"`
	Date       string `json:"date" validate:"omitempty"`
}

type gameDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	OwnerID     string         `json:"owner_id"`
	Status      string         `json:"status"`
	Version     int64          `json:"version"`
	Teams       []teamEntryDTO `json:"teams"`
	Matches     []matchDTO     `json:"matches"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type teamEntryDTO struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	TeamLogo string `json:"team_logo,omitempty"`
	Player   string `json:"player"`
}

type matchDTO struct {
	Index      int    `json:"index"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeScore  int    `json:"home_score"`
	AwayScore  int    `json:"away_score"`
	Date       string `json:"date"`
}

type gameSummaryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TeamCount   int    `json:"team_count"`
	MatchCount  int    `json:"match_count"`
	CreatedAt   string `json:"created_at"`
	Description string `json:"description,omitempty"`
}

type standingDTO struct {
	Position       int    `json:"position"`
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type viewerDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	LastSeen int64  `json:"last_seen"`
	Stale    bool   `json:"stale"`
}

type viewerListDTO struct {
	GameID        string      `json:"game_id"`
	WindowSeconds int64       `json:"window_seconds"`
	Viewers       []viewerDTO `json:"viewers"`
}

func gameToDTO(g game.Game) gameDTO {
	out := gameDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		Status:      string(g.Status),
		Version:     g.Version,
		Teams:       make([]teamEntryDTO, 0, len(g.Teams)),
		Matches:     make([]matchDTO, 0, len(g.Matches)),
		CreatedAt:   formatTime(g.CreatedAt),
		UpdatedAt:   formatTime(g.UpdatedAt),
	}
	for _, entry := range g.Teams {
		out.Teams = append(out.Teams, teamEntryDTO{
			TeamID:   entry.Team.ID,
			TeamName: entry.Team.Name,
			TeamLogo: entry.Team.Logo,
			Player:   entry.Player,
		})
	}
	for i, match := range g.Matches {
		out.Matches = append(out.Matches, matchDTO{
			Index:      i,
			HomeTeamID: match.HomeTeamID,
			AwayTeamID: match.AwayTeamID,
			HomeScore:  match.HomeScore,
			AwayScore:  match.AwayScore,
			Date:       formatTime(match.Date),
		})
	}
	return out
}

func gameToSummaryDTO(g game.Game) gameSummaryDTO {
	return gameSummaryDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Status:      string(g.Status),
		TeamCount:   len(g.Teams),
		MatchCount:  len(g.Matches),
		CreatedAt:   formatTime(g.CreatedAt),
	}
}

func standingsToDTO(rows []game.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingDTO{
			Position:       row.Position,
			TeamID:         row.TeamID,
			TeamName:       row.TeamName,
			Played:         row.Played,
			Won:            row.Won,
			Drawn:          row.Drawn,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}
	return out
}

func viewersToDTO(gameID string, viewers []viewer.Viewer, window time.Duration, now time.Time) viewerListDTO {
	out := viewerListDTO{
		GameID:        gameID,
		WindowSeconds: int64(window / time.Second),
		Viewers:       make([]viewerDTO, 0, len(viewers)),
	}
	for _, v := range viewers {
		out.Viewers = append(out.Viewers, viewerDTO{
			UserID:   v.UserID,
			Username: v.Username,
			LastSeen: v.LastSeen,
			Stale:    v.StaleAt(now, viewer.ClientStaleAfter),
		})
	}
	return out
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
