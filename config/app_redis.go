package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/akeren/launch-waitlist/internal/log"
	pkgredis "github.com/akeren/launch-waitlist/pkg/redis"
	"github.com/akeren/launch-waitlist/pkg/retry"
	"github.com/akeren/launch-waitlist/pkg/utils"
	"github.com/go-redis/redis/v8"
)

type Redis interface {
	Ping(ctx context.Context) error
	Close() error
}

// RedisClientProvider is an optional interface for connections that expose the underlying client.
// The redis waitlist store needs it for Lua scripts and sorted sets.
type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(utils.GetEnvTrimmedOrDefault("REDIS_DB", "0"))
	if err != nil || db < 0 {
		db = 0
	}

	return &RedisConfig{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     utils.GetEnvOrDefault("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

func (rc *RedisConfig) IsConfigured() bool {
	return rc.Host != ""
}

func (rc *RedisConfig) NewRedis(logger *log.Logger) (Redis, error) {
	if !rc.IsConfigured() {
		logger.Error("Redis configuration is missing")
		return nil, ErrRedisNotConfigured
	}

	var client *pkgredis.Client

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := retry.NewExponentialBackoff(redisConnectRetry()).Execute(ctx, func(ctx context.Context) error {
		c, connectErr := pkgredis.NewClient(&pkgredis.Config{
			Host:     rc.Host,
			Port:     rc.Port,
			Password: rc.Password,
			DB:       rc.DB,
		})
		if connectErr != nil {
			logger.Warn("Redis connection attempt failed", "error", connectErr)
			return connectErr
		}
		client = c
		return nil
	})
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		return nil, err
	}

	logger.Info("Redis connected successfully", "host", rc.Host, "port", rc.Port, "db", rc.DB)
	return client, nil
}

func redisConnectRetry() *retry.Config {
	return &retry.Config{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2,
	}
}

func (rc *RedisConfig) NewRedisOrNil(logger *log.Logger) Redis {
	if !rc.IsConfigured() {
		logger.Info("Redis is not configured; proceeding without it")
		return nil
	}

	client, err := rc.NewRedis(logger)
	if err != nil {
		return nil
	}

	return client
}

func GetRedisClient(r Redis) *redis.Client {
	if r == nil {
		return nil
	}

	if provider, ok := r.(RedisClientProvider); ok {
		return provider.GetClient()
	}

	return nil
}

func CloseRedis(r Redis, logger *log.Logger) error {
	if r == nil {
		logger.Info("No redis connection; skipping close")
		return nil
	}

	if err := r.Close(); err != nil {
		logger.Error("Failed to close redis connection", "error", err)
		return err
	}

	logger.Info("Redis connection closed")
	return nil
}

var ErrRedisNotConfigured = &RedisError{Message: "redis host is not configured"}

type RedisError struct {
	Message string
}

func (e *RedisError) Error() string {
	return e.Message
}
