package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// Stash carries everything the commit step needs from the validate step.
type Stash struct {
	Operation string
	GameID    string
	Observed  game.Game
	Changes   game.Changes
	Condition game.Condition
}

// Validator inspects the loaded game and decides the write. It must not do I/O.
type Validator func(current game.Game) (game.Changes, game.Condition, error)

// Pipeline runs mutations as a read-validate step followed by a conditional
// write built only from the stash.
type Pipeline struct {
	repo     game.Repository
	recorder MutationRecorder
	logger   *logging.Logger
	timeout  time.Duration
	now      func() time.Time
}

func NewPipeline(repo game.Repository, recorder MutationRecorder, logger *logging.Logger, timeout time.Duration) *Pipeline {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (p *Pipeline) Run(ctx context.Context, operation, gameID string, validate Validator) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Pipeline."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("game.id", gameID))

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	startedAt := p.now()
	out, err := p.run(ctx, operation, gameID, validate)
	outcome := outcomeOf(err)
	p.recorder.ObserveMutation(operation, outcome, p.now().Sub(startedAt))
	span.SetAttributes(attribute.String("mutation.outcome", outcome))
	if outcome == OutcomeConflict {
		p.logger.InfoContext(ctx, "mutation lost a concurrent update", "operation", operation, "game_id", gameID)
	}
	return out, err
}

func (p *Pipeline) run(ctx context.Context, operation, gameID string, validate Validator) (game.Game, error) {
	stash, err := p.Validate(ctx, operation, gameID, validate)
	if err != nil {
		return game.Game{}, err
	}
	if err := ctx.Err(); err != nil {
		return game.Game{}, fmt.Errorf("%s: %w", operation, err)
	}
	return p.Commit(ctx, stash)
}

// Validate loads the game and runs validate against it. It never writes.
func (p *Pipeline) Validate(ctx context.Context, operation, gameID string, validate Validator) (Stash, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return Stash{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if validate == nil {
		return Stash{}, fmt.Errorf("%s: validator is required", operation)
	}

	current, exists, err := p.repo.GetByID(ctx, gameID)
	if err != nil {
		return Stash{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return Stash{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	changes, cond, err := validate(current.Clone())
	if err != nil {
		return Stash{}, err
	}
	if changes.IsEmpty() {
		return Stash{}, fmt.Errorf("%s: validator produced no changes", operation)
	}

	return Stash{
		Operation: operation,
		GameID:    gameID,
		Observed:  current,
		Changes:   changes,
		Condition: cond,
	}, nil
}

// Commit re-checks the stash against its own snapshot and issues the
// conditional update. A failed condition is reported as ErrConflict.
func (p *Pipeline) Commit(ctx context.Context, stash Stash) (game.Game, error) {
	if err := checkStash(stash); err != nil {
		return game.Game{}, err
	}

	updated, err := p.repo.Update(ctx, stash.GameID, stash.Changes, stash.Condition)
	if err != nil {
		if errors.Is(err, game.ErrConditionFailed) {
			return game.Game{}, fmt.Errorf("%w: %s on game=%s: state changed since it was read", ErrConflict, stash.Operation, stash.GameID)
		}
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}
	return updated, nil
}

func checkStash(stash Stash) error {
	if stash.GameID == "" || stash.Observed.ID != stash.GameID {
		return fmt.Errorf("%s: stash does not belong to game %q", stash.Operation, stash.GameID)
	}
	if stash.Changes.IsEmpty() {
		return fmt.Errorf("%s: stash has no changes", stash.Operation)
	}
	if !stash.Condition.Matches(stash.Observed) {
		return fmt.Errorf("%s: stash condition does not hold for its snapshot", stash.Operation)
	}
	if stash.Changes.Status != nil {
		if err := game.ValidateStatusChange(stash.Observed, *stash.Changes.Status); err != nil {
			return err
		}
	}
	return nil
}
