package redis

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/go-redis/redis/v8"
)

type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewClient connects and pings the server once.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	if opts.Addr == "" {
		return nil, crerr.New("redis addr is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrapf(err, "ping redis %s", opts.Addr)
	}
	return client, nil
}
