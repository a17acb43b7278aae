package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

type HeartbeatInput struct {
	GameID   string
	UserID   string
	Username string
}

type PresenceService struct {
	repo      viewer.Repository
	publisher gameevent.Publisher
	window    time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

func NewPresenceService(repo viewer.Repository, publisher gameevent.Publisher, window time.Duration, logger *logging.Logger) *PresenceService {
	if window <= 0 {
		window = viewer.PresenceWindow
	}
	if publisher == nil {
		publisher = gameevent.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PresenceService{
		repo:      repo,
		publisher: publisher,
		window:    window,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PresenceService) Window() time.Duration {
	return s.window
}

// Heartbeat refreshes the caller's presence and returns who is watching now.
func (s *PresenceService) Heartbeat(ctx context.Context, input HeartbeatInput) ([]viewer.Viewer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PresenceService.Heartbeat")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.Username = strings.TrimSpace(input.Username)
	if input.GameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Username == "" {
		input.Username = input.UserID
	}

	now := s.now().UTC()
	record := viewer.Viewer{
		GameID:    input.GameID,
		UserID:    input.UserID,
		Username:  input.Username,
		LastSeen:  now.Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert viewer: %w", err)
	}

	viewers, err := s.repo.ListActive(ctx, input.GameID, viewer.ActiveSince(now, s.window))
	if err != nil {
		return nil, fmt.Errorf("list active viewers: %w", err)
	}

	if err := s.publisher.Publish(ctx, gameevent.ViewersUpdated(input.GameID, viewers, now)); err != nil {
		s.logger.WarnContext(ctx, "publish viewers update failed", "game_id", input.GameID, "error", err)
	}
	return viewers, nil
}

// ListViewers returns viewers with LastSeen >= since. A zero since means the
// presence window ending now.
func (s *PresenceService) ListViewers(ctx context.Context, gameID string, since int64) ([]viewer.Viewer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PresenceService.ListViewers")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if since < 0 {
		return nil, fmt.Errorf("%w: since must be >= 0", ErrInvalidInput)
	}
	if since == 0 {
		since = viewer.ActiveSince(s.now(), s.window)
	}

	viewers, err := s.repo.ListActive(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("list active viewers: %w", err)
	}
	return viewers, nil
}
