package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"facility-kpi-service/config"
)

// Client wraps the go-redis client and the lock client built on it.
type Client struct {
	rdb    *goredis.Client
	locker *redislock.Client
}

// NewClient connects and pings redis.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, locker: redislock.New(rdb)}, nil
}

func (c *Client) Locker() *redislock.Client {
	return c.locker
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
