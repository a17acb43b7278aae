package account

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/game-tracker/internal/domain/user"
	"github.com/riskibarqy/game-tracker/internal/platform/cache"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/riskibarqy/game-tracker/internal/platform/resilience"
	"github.com/riskibarqy/game-tracker/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var (
	errIntrospectTransient = crerr.New("account introspection transient failure")
	tracer                 = otel.Tracer("game-tracker/internal/infrastructure/account")
)

const (
	defaultTimeout  = 3 * time.Second
	defaultCacheTTL = 30 * time.Second
	maxResponseBody = 1 << 20
)

type ClientConfig struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Circuit        resilience.CircuitBreakerConfig
}

// Client resolves bearer tokens through the account service introspection
// endpoint. Active principals are cached by token hash.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	principals    *cache.Store[user.Principal]
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg ClientConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		breaker:       resilience.NewCircuitBreaker(cfg.Circuit),
		principals:    cache.NewStore[user.Principal](ttl),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return c.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		return c.introspect(ctx, token)
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	ctx, span := tracer.Start(ctx, "account.Client.introspect")
	defer span.End()

	if err := c.breaker.Allow(); err != nil {
		span.SetStatus(codes.Error, "circuit open")
		return user.Principal{}, fmt.Errorf("%w: account service circuit open", usecase.ErrDependencyUnavailable)
	}

	principal, err := c.doIntrospect(ctx, token)
	c.breaker.Record(err, isCircuitFailure)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "introspection failed")
		if crerr.Is(err, errIntrospectTransient) {
			c.logger.WarnContext(ctx, "account introspection unavailable",
				"circuit_state", string(c.breaker.State()),
				"error", err,
			)
			return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return user.Principal{}, err
	}
	return principal, nil
}

func (c *Client) doIntrospect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, crerr.Mark(crerr.Wrap(err, "request introspection"), errIntrospectTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return user.Principal{}, crerr.Mark(crerr.Wrap(err, "read introspect response"), errIntrospectTransient)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// the admin key was rejected, the caller's token is not at fault
		return user.Principal{}, fmt.Errorf("%w: account service rejected admin key", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return user.Principal{}, crerr.Mark(crerr.Newf("introspection status=%d", resp.StatusCode), errIntrospectTransient)
	case resp.StatusCode != http.StatusOK:
		return user.Principal{}, crerr.Newf("introspection failed with status=%d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	oteltrace.SpanFromContext(ctx).SetAttributes(attribute.String("account.user_id", decoded.UserID))

	return user.Principal{
		UserID:   decoded.UserID,
		Email:    decoded.Email,
		Username: decoded.Username,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errIntrospectTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return baseURL
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case !strings.HasPrefix(path, "/"):
		path = "/" + path
	}
	return baseURL + path
}
