package redis

import (
	"context"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/go-redis/redis/v8"
	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
)

const (
	viewerKeyPrefix      = "viewer:"
	viewerIndexKeyPrefix = "viewers:"
	viewerGamesKey       = "viewers:games"

	fieldUsername  = "username"
	fieldLastSeen  = "last_seen"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// ViewerRepository keeps one hash per viewer and a per-game sorted set scored
// by last_seen. Both carry a TTL of the retention period, refreshed on every
// heartbeat, so idle records expire on their own.
type ViewerRepository struct {
	client    *goredis.Client
	retention time.Duration
}

func NewViewerRepository(client *goredis.Client, retention time.Duration) *ViewerRepository {
	if retention <= 0 {
		retention = viewer.DefaultRetention
	}
	return &ViewerRepository{client: client, retention: retention}
}

func viewerKey(gameID, userID string) string {
	return viewerKeyPrefix + gameID + ":" + userID
}

func viewerIndexKey(gameID string) string {
	return viewerIndexKeyPrefix + gameID
}

func (r *ViewerRepository) Upsert(ctx context.Context, v viewer.Viewer) error {
	if err := v.Validate(); err != nil {
		return err
	}

	key := viewerKey(v.GameID, v.UserID)
	indexKey := viewerIndexKey(v.GameID)
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldUsername, v.Username,
			fieldLastSeen, v.LastSeen,
			fieldUpdatedAt, v.UpdatedAt.Unix(),
		)
		pipe.HSetNX(ctx, key, fieldCreatedAt, v.CreatedAt.Unix())
		pipe.Expire(ctx, key, r.retention)
		pipe.ZAdd(ctx, indexKey, &goredis.Z{Score: float64(v.LastSeen), Member: v.UserID})
		pipe.Expire(ctx, indexKey, r.retention)
		pipe.SAdd(ctx, viewerGamesKey, v.GameID)
		return nil
	})
	if err != nil {
		return crerr.Wrapf(err, "upsert viewer game=%s user=%s", v.GameID, v.UserID)
	}
	return nil
}

func (r *ViewerRepository) ListActive(ctx context.Context, gameID string, since int64) ([]viewer.Viewer, error) {
	userIDs, err := r.client.ZRangeByScore(ctx, viewerIndexKey(gameID), &goredis.ZRangeBy{
		Min: strconv.FormatInt(since, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, crerr.Wrapf(err, "range viewers of game=%s", gameID)
	}
	if len(userIDs) == 0 {
		return []viewer.Viewer{}, nil
	}

	cmds := make([]*goredis.StringStringMapCmd, len(userIDs))
	_, err = r.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, userID := range userIDs {
			cmds[i] = pipe.HGetAll(ctx, viewerKey(gameID, userID))
		}
		return nil
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "load viewers of game=%s", gameID)
	}

	out := make([]viewer.Viewer, 0, len(userIDs))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// hash expired before its index entry
			continue
		}
		v, err := viewerFromHash(gameID, userIDs[i], fields)
		if err != nil {
			return nil, err
		}
		if v.LastSeen < since {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Reap trims index entries older than before. Viewer hashes expire by TTL.
func (r *ViewerRepository) Reap(ctx context.Context, before int64) (int, error) {
	gameIDs, err := r.client.SMembers(ctx, viewerGamesKey).Result()
	if err != nil {
		return 0, crerr.Wrap(err, "list viewer games")
	}

	removed := 0
	maxScore := "(" + strconv.FormatInt(before, 10)
	for _, gameID := range gameIDs {
		indexKey := viewerIndexKey(gameID)
		n, err := r.client.ZRemRangeByScore(ctx, indexKey, "-inf", maxScore).Result()
		if err != nil {
			return removed, crerr.Wrapf(err, "reap viewers of game=%s", gameID)
		}
		removed += int(n)

		left, err := r.client.ZCard(ctx, indexKey).Result()
		if err != nil {
			return removed, crerr.Wrapf(err, "count viewers of game=%s", gameID)
		}
		if left == 0 {
			if err := r.client.SRem(ctx, viewerGamesKey, gameID).Err(); err != nil {
				return removed, crerr.Wrapf(err, "drop viewer game=%s", gameID)
			}
		}
	}
	return removed, nil
}

func viewerFromHash(gameID, userID string, fields map[string]string) (viewer.Viewer, error) {
	lastSeen, err := strconv.ParseInt(fields[fieldLastSeen], 10, 64)
	if err != nil {
		return viewer.Viewer{}, crerr.Wrapf(err, "parse last_seen of viewer game=%s user=%s", gameID, userID)
	}
	return viewer.Viewer{
		GameID:    gameID,
		UserID:    userID,
		Username:  fields[fieldUsername],
		LastSeen:  lastSeen,
		CreatedAt: unixField(fields[fieldCreatedAt]),
		UpdatedAt: unixField(fields[fieldUpdatedAt]),
	}, nil
}

func unixField(raw string) time.Time {
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
