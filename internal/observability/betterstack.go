package observability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/game-tracker/internal/config"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	betterStackQueueSize  = 1024
	betterStackBatchSize  = 50
	betterStackFlushEvery = time.Second
)

// InitBetterStackLogger tees the JSON stdout logger into a Better Stack core
// that ships batches of records. The returned drain flushes what is queued.
func InitBetterStackLogger(cfg config.Config, baseLogger *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if baseLogger == nil {
		baseLogger = logging.NewJSON(cfg.LogLevel)
	}

	if !cfg.BetterStackEnabled {
		baseLogger.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
		return baseLogger, func(context.Context) error { return nil }, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newBetterStackShipper(endpoint, cfg.BetterStackToken, cfg.BetterStackTimeout)
	shipCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.JSONEncoderConfig()),
		zapcore.AddSync(shipper),
		cfg.BetterStackMinLevel,
	)

	zapLogger := baseLogger.Zap().WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, shipCore)
	}))
	logger := logging.FromZap(zapLogger)
	logger.Info("betterstack enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	return logger, func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// betterStackShipper is a zapcore.WriteSyncer that never blocks the logger.
// Records are queued, grouped into JSON arrays and posted in the background.
type betterStackShipper struct {
	endpoint string
	token    string
	client   *http.Client

	mu      sync.RWMutex
	closed  bool
	queue   chan []byte
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	s := &betterStackShipper{
		endpoint: endpoint,
		token:    strings.TrimSpace(token),
		client:   &http.Client{Timeout: timeout},
		queue:    make(chan []byte, betterStackQueueSize),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *betterStackShipper) Write(p []byte) (int, error) {
	record := bytes.TrimSpace(p)
	if len(record) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses its buffer once Write returns
	select {
	case s.queue <- append([]byte(nil), record...):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *betterStackShipper) Sync() error { return nil }

func (s *betterStackShipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(betterStackFlushEvery)
	defer ticker.Stop()

	batch := make([][]byte, 0, betterStackBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.send(batch)
		batch = batch[:0]
	}

	for {
		select {
		case record, ok := <-s.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, record)
			if len(batch) >= betterStackBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *betterStackShipper) send(batch [][]byte) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	encodeBatch(buf, batch)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint, bytes.NewReader(buf.Bytes()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack create request failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack send logs failed: records=%d err=%v\n", len(batch), err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack send logs got non-2xx status=%d\n", resp.StatusCode)
	}
}

// encodeBatch writes records as one JSON array.
func encodeBatch(buf *bytebufferpool.ByteBuffer, batch [][]byte) {
	_ = buf.WriteByte('[')
	for i, record := range batch {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(record)
	}
	_ = buf.WriteByte(']')
}

func (s *betterStackShipper) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
