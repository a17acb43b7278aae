package realtime

import (
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
	"github.com/valyala/bytebufferpool"
)

// Frame is the JSON message pushed to subscribers.
type Frame struct {
	Type       string        `json:"type"`
	GameID     string        `json:"game_id"`
	OccurredAt time.Time     `json:"occurred_at"`
	Game       *GameFrame    `json:"game,omitempty"`
	Viewers    []ViewerFrame `json:"viewers,omitempty"`
}

type GameFrame struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	OwnerID     string       `json:"owner_id"`
	Status      string       `json:"status"`
	Version     int64        `json:"version"`
	Teams       []TeamFrame  `json:"teams"`
	Matches     []MatchFrame `json:"matches"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type TeamFrame struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Player string `json:"player"`
}

type MatchFrame struct {
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Date       time.Time `json:"date"`
}

type ViewerFrame struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	LastSeen int64  `json:"last_seen"`
}

func newFrame(event gameevent.Event) Frame {
	frame := Frame{
		Type:       string(event.Type),
		GameID:     event.GameID,
		OccurredAt: event.OccurredAt.UTC(),
	}
	if event.Game != nil {
		frame.Game = newGameFrame(*event.Game)
	}
	if event.Type == gameevent.TypeViewersUpdated {
		frame.Viewers = newViewerFrames(event.Viewers)
	}
	return frame
}

func newGameFrame(g game.Game) *GameFrame {
	out := &GameFrame{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		Status:      string(g.Status),
		Version:     g.Version,
		Teams:       make([]TeamFrame, 0, len(g.Teams)),
		Matches:     make([]MatchFrame, 0, len(g.Matches)),
		CreatedAt:   g.CreatedAt.UTC(),
		UpdatedAt:   g.UpdatedAt.UTC(),
	}
	for _, entry := range g.Teams {
		out.Teams = append(out.Teams, TeamFrame{
			ID:     entry.Team.ID,
			Name:   entry.Team.Name,
			Logo:   entry.Team.Logo,
			Player: entry.Player,
		})
	}
	for _, match := range g.Matches {
		out.Matches = append(out.Matches, MatchFrame{
			HomeTeamID: match.HomeTeamID,
			AwayTeamID: match.AwayTeamID,
			HomeScore:  match.HomeScore,
			AwayScore:  match.AwayScore,
			Date:       match.Date.UTC(),
		})
	}
	return out
}

func newViewerFrames(viewers []viewer.Viewer) []ViewerFrame {
	out := make([]ViewerFrame, 0, len(viewers))
	for _, v := range viewers {
		out = append(out, ViewerFrame{UserID: v.UserID, Username: v.Username, LastSeen: v.LastSeen})
	}
	return out
}

// EncodeFrame renders event as a single JSON text message.
func EncodeFrame(event gameevent.Event) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(newFrame(event)); err != nil {
		return nil, crerr.Wrapf(err, "encode %s frame for game=%s", event.Type, event.GameID)
	}

	raw := buf.Bytes()
	if n := len(raw); n > 0 && raw[n-1] == '\n' {
		raw = raw[:n-1]
	}
	return append([]byte(nil), raw...), nil
}

type frameHeader struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
}

func peekGameID(raw []byte) (string, error) {
	var header frameHeader
	if err := sonic.Unmarshal(raw, &header); err != nil {
		return "", crerr.Wrap(err, "decode frame header")
	}
	if header.GameID == "" {
		return "", crerr.New("frame has no game id")
	}
	return header.GameID, nil
}
