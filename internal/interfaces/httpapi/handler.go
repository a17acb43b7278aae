package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/game-tracker/internal/domain/user"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/realtime"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/riskibarqy/game-tracker/internal/usecase"
)

const maxRequestBody = 1 << 20

// Subscriber hands out per-game event subscriptions for websocket clients.
type Subscriber interface {
	Subscribe(gameID string) (*realtime.Subscription, error)
}

type Handler struct {
	gameService     *usecase.GameService
	presenceService *usecase.PresenceService
	subscriber      Subscriber
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	gameService *usecase.GameService,
	presenceService *usecase.PresenceService,
	subscriber Subscriber,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameService:     gameService,
		presenceService: presenceService,
		subscriber:      subscriber,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeRequest reads a strict JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}
