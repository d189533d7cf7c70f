package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const defaultDialTimeout = 5 * time.Second

type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Client owns a go-redis connection pool and is closed by the application config.
type Client struct {
	client *goredis.Client
}

func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("redis: host is required")
	}

	port := cfg.Port
	if port == "" {
		port = "6379"
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        net.JoinHostPort(cfg.Host, port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", net.JoinHostPort(cfg.Host, port), err)
	}

	return &Client{client: rdb}, nil
}

// Wrap adopts an existing go-redis client.
func Wrap(rdb *goredis.Client) *Client {
	return &Client{client: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) GetClient() *goredis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
