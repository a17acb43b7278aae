package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/go-redis/redis/v8"
	"github.com/riskibarqy/game-tracker/internal/config"
	"github.com/riskibarqy/game-tracker/internal/domain/gameevent"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/account"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/realtime"
	redisrepo "github.com/riskibarqy/game-tracker/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/game-tracker/internal/interfaces/httpapi"
	"github.com/riskibarqy/game-tracker/internal/observability"
	idgen "github.com/riskibarqy/game-tracker/internal/platform/id"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/riskibarqy/game-tracker/internal/usecase"
	"github.com/sourcegraph/conc/pool"
)

// App owns every long-running component of the API process.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	server *http.Server
	pprof  *http.Server
	reaper *usecase.ViewerReaper
	bridge *realtime.RedisBridge
	hub    *realtime.Hub

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	var redisClient *goredis.Client
	if cfg.UsesRedis() {
		client, err := redisrepo.NewClient(ctx, redisrepo.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		redisClient = client
		a.closers = append(a.closers, client.Close)
	}

	gameRepo, closeGames, err := newGameRepository(cfg, a.logger)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeGames)
	viewerRepo := newViewerRepository(cfg, redisClient)

	hub, err := realtime.NewHub(cfg.RealtimeWorkers, cfg.RealtimeBuffer, a.logger)
	if err != nil {
		return err
	}
	a.hub = hub

	var publisher gameevent.Publisher = hub
	if cfg.RealtimeRedisEnabled {
		a.bridge = realtime.NewRedisBridge(redisClient, cfg.RealtimeChannel, hub, a.logger)
		publisher = a.bridge
	}

	var recorder usecase.MutationRecorder
	var requestRecorder httpapi.RequestRecorder
	var metricsHandler http.Handler
	if metrics != nil {
		recorder = metrics
		requestRecorder = metrics
		metricsHandler = metrics.Handler()
	}

	pipeline := usecase.NewPipeline(gameRepo, recorder, a.logger, cfg.MutationTimeout)
	gameService := usecase.NewGameService(gameRepo, pipeline, publisher, idgen.NewUUIDGenerator(), a.logger)
	presenceService := usecase.NewPresenceService(viewerRepo, publisher, cfg.PresenceWindow, a.logger)
	a.reaper = usecase.NewViewerReaper(viewerRepo, cfg.ViewerRetention, cfg.ViewerReapInterval, a.logger)

	accountClient := account.NewClient(&http.Client{Timeout: cfg.AccountTimeout}, account.ClientConfig{
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		AdminKey:       cfg.AccountAdminKey,
		Timeout:        cfg.AccountTimeout,
		CacheTTL:       cfg.AccountCacheTTL,
		Circuit:        cfg.AccountCircuit,
	}, a.logger)

	handler := httpapi.NewHandler(gameService, presenceService, hub, a.logger)
	router := httpapi.NewRouter(handler, accountClient, a.logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            metricsHandler,
		RequestMetrics:     requestRecorder,
	})

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	a.pprof = observability.NewPprofServer(cfg)
	return nil
}

// Handler exposes the routed API, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run blocks until ctx is done or a component fails; the first failure
// stops the rest.
func (a *App) Run(ctx context.Context) error {
	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(a.serveHTTP)
	p.Go(func(ctx context.Context) error {
		a.reaper.Run(ctx)
		return nil
	})
	if a.bridge != nil {
		p.Go(a.bridge.Run)
	}
	if a.pprof != nil {
		p.Go(func(ctx context.Context) error {
			return observability.ServePprof(ctx, a.pprof, a.logger)
		})
	}

	return p.Wait()
}

func (a *App) serveHTTP(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr, "game_store", a.cfg.GameStore, "viewer_store", a.cfg.ViewerStore)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}

// Close releases stores and the realtime hub. Safe after a failed build.
func (a *App) Close() error {
	if a.hub != nil {
		a.hub.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
