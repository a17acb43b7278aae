package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	idgen "github.com/riskibarqy/game-tracker/internal/platform/id"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type CreateGameInput struct {
	OwnerID     string
	Name        string
	Description string
}

type UpdateGameStatusInput struct {
	GameID string
	Status string
}

type AddTeamInput struct {
	GameID   string
	TeamID   string
	TeamName string
	TeamLogo string
	Player   string
}

type RemoveTeamInput struct {
	GameID string
	TeamID string
}

type AddMatchInput struct {
	GameID     string
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Date       *time.Time
}

type DeleteMatchInput struct {
	GameID     string
	MatchIndex int
}

type ListGamesInput struct {
	OwnerID    string
	After      time.Time
	Before     time.Time
	Descending bool
	Limit      int
}

type GameService struct {
	repo      game.Repository
	pipeline  *Pipeline
	publisher gameevent.Publisher
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewGameService(
	repo game.Repository,
	pipeline *Pipeline,
	publisher gameevent.Publisher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if publisher == nil {
		publisher = gameevent.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GameService{
		repo:      repo,
		pipeline:  pipeline,
		publisher: publisher,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.OwnerID == "" {
		return game.Game{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return game.Game{}, fmt.Errorf("%w: game name is required", ErrInvalidInput)
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.now().UTC()
	item := game.Game{
		ID:          gameID,
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		Status:      game.StatusDraft,
		Teams:       []game.TeamEntry{},
		Matches:     []game.MatchEntry{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return item, nil
}

func (s *GameService) UpdateGameStatus(ctx context.Context, input UpdateGameStatusInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.UpdateGameStatus")
	defer span.End()

	target, err := game.ParseStatus(input.Status)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, err := s.pipeline.Run(ctx, "update_status", input.GameID, func(current game.Game) (game.Changes, game.Condition, error) {
		if err := game.ValidateStatusChange(current, target); err != nil {
			return game.Changes{}, game.Condition{}, err
		}
		return game.Changes{Status: &target}, game.StatusIs(current.Status), nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.publish(ctx, out)
	return out, nil
}

func (s *GameService) AddTeam(ctx context.Context, input AddTeamInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.AddTeam")
	defer span.End()

	entry := game.TeamEntry{
		Team: game.Team{
			ID:   strings.TrimSpace(input.TeamID),
			Name: strings.TrimSpace(input.TeamName),
			Logo: strings.TrimSpace(input.TeamLogo),
		},
		Player: strings.TrimSpace(input.Player),
	}
	if entry.Team.ID == "" {
		return game.Game{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if entry.Team.Name == "" {
		return game.Game{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	out, err := s.pipeline.Run(ctx, "add_team", input.GameID, func(current game.Game) (game.Changes, game.Condition, error) {
		teams, err := game.AddTeam(current, entry)
		if err != nil {
			return game.Changes{}, game.Condition{}, err
		}
		return game.Changes{Teams: &teams}, collectionEditCondition(current), nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.publish(ctx, out)
	return out, nil
}

func (s *GameService) RemoveTeam(ctx context.Context, input RemoveTeamInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.RemoveTeam")
	defer span.End()

	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		return game.Game{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	out, err := s.pipeline.Run(ctx, "remove_team", input.GameID, func(current game.Game) (game.Changes, game.Condition, error) {
		teams, err := game.RemoveTeam(current, teamID)
		if err != nil {
			return game.Changes{}, game.Condition{}, err
		}
		return game.Changes{Teams: &teams}, collectionEditCondition(current), nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.publish(ctx, out)
	return out, nil
}

func (s *GameService) AddMatch(ctx context.Context, input AddMatchInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.AddMatch")
	defer span.End()

	match := game.MatchInput{
		HomeTeamID: strings.TrimSpace(input.HomeTeamID),
		AwayTeamID: strings.TrimSpace(input.AwayTeamID),
		HomeScore:  input.HomeScore,
		AwayScore:  input.AwayScore,
	}
	if match.HomeTeamID == "" || match.AwayTeamID == "" {
		return game.Game{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if input.Date != nil {
		match.Date = input.Date.UTC()
	}
	now := s.now().UTC()

	out, err := s.pipeline.Run(ctx, "add_match", input.GameID, func(current game.Game) (game.Changes, game.Condition, error) {
		matches, err := game.AddMatch(current, match, now)
		if err != nil {
			return game.Changes{}, game.Condition{}, err
		}
		return game.Changes{Matches: &matches}, collectionEditCondition(current), nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.publish(ctx, out)
	return out, nil
}

func (s *GameService) DeleteMatch(ctx context.Context, input DeleteMatchInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.DeleteMatch")
	defer span.End()

	out, err := s.pipeline.Run(ctx, "delete_match", input.GameID, func(current game.Game) (game.Changes, game.Condition, error) {
		matches, err := game.DeleteMatch(current, input.MatchIndex)
		if err != nil {
			return game.Changes{}, game.Condition{}, err
		}
		return game.Changes{Matches: &matches}, collectionEditCondition(current), nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.publish(ctx, out)
	return out, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return item, nil
}

func (s *GameService) ListGamesByOwner(ctx context.Context, input ListGamesInput) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGamesByOwner")
	defer span.End()

	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if !input.After.IsZero() && !input.Before.IsZero() && !input.After.Before(input.Before) {
		return nil, fmt.Errorf("%w: after must be earlier than before", ErrInvalidInput)
	}

	limit := input.Limit
	switch {
	case limit < 0:
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	case limit == 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, game.ListOptions{
		After:      input.After,
		Before:     input.Before,
		Descending: input.Descending,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list games by owner: %w", err)
	}
	return items, nil
}

// GetStandings returns the ranked table of a game.
func (s *GameService) GetStandings(ctx context.Context, gameID string) ([]game.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetStandings")
	defer span.End()

	item, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.SortStandings(game.ComputeStandings(item.Teams, item.Matches)), nil
}

func (s *GameService) publish(ctx context.Context, item game.Game) {
	if err := s.publisher.Publish(ctx, gameevent.GameUpdated(item, s.now().UTC())); err != nil {
		s.logger.WarnContext(ctx, "publish game update failed", "game_id", item.ID, "error", err)
	}
}

// collectionEditCondition pins both the status the edit was validated under
// and the revision it was computed from.
func collectionEditCondition(current game.Game) game.Condition {
	return game.StatusIs(current.Status).WithVersion(current.Version)
}
