package postgres

import (
	"database/sql"
	"time"
)

const gamesTable = "games"

type gameTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	OwnerUserID string         `db:"owner_user_id"`
	Status      string         `db:"status"`
	Teams       []byte         `db:"teams"`
	Matches     []byte         `db:"matches"`
	Version     int64          `db:"version"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	OwnerUserID string    `db:"owner_user_id"`
	Status      string    `db:"status"`
	Teams       string    `db:"teams"`
	Matches     string    `db:"matches"`
	Version     int64     `db:"version"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// teamEntryDocument and matchEntryDocument are the JSONB element shapes.
type teamEntryDocument struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	TeamLogo string `json:"team_logo,omitempty"`
	Player   string `json:"player,omitempty"`
}

type matchEntryDocument struct {
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}
