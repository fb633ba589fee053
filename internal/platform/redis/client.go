// Package redis connects the portal to the Redis instance shared by the token
// blacklist and the request throttle.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"portal/internal/platform/config"
)

const startupPing = 3 * time.Second

type Client struct {
	*goredis.Client
}

// New returns nil without error when no URL is configured, which selects the
// Postgres or in-memory fallbacks.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	applyPool(opts, cfg)

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, startupPing)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Addr, err)
	}
	return &Client{Client: rdb}, nil
}

// applyPool copies only the settings the operator set; zero values keep the
// go-redis defaults parsed from the URL.
func applyPool(opts *goredis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Health backs the "redis" entry of /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
