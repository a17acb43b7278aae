package app

import (
	"time"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/game-tracker/internal/config"
	"github.com/riskibarqy/game-tracker/internal/domain/game"
	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
	cacherepo "github.com/riskibarqy/game-tracker/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/game-tracker/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/game-tracker/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

func nopClose() error { return nil }

func newGameRepository(cfg config.Config, logger *logging.Logger) (game.Repository, func() error, error) {
	var (
		repo    game.Repository
		closeFn = nopClose
	)

	switch cfg.GameStore {
	case config.StorePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("postgres game store connected", "db_name", dbNameFromURL(cfg.DBURL))
		repo = postgres.NewGameRepository(db)
		closeFn = db.Close
	default:
		repo = memory.NewGameRepository()
	}

	if cfg.CacheEnabled {
		repo = cacherepo.NewGameRepository(repo, cfg.CacheTTL)
	}
	return repo, closeFn, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping postgres")
	}
	return db, nil
}

func newViewerRepository(cfg config.Config, client *goredis.Client) viewer.Repository {
	if cfg.ViewerStore == config.StoreRedis && client != nil {
		return redisrepo.NewViewerRepository(client, cfg.ViewerRetention)
	}
	return memory.NewViewerRepository()
}
