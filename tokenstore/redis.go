package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/sttkit/logger"
)

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces token keys, joined with a colon. Default "sttkit:token".
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// OpTimeout bounds each read and write. Default 3s.
	OpTimeout time.Duration `mapstructure:"op_timeout"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *RedisConfig) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "sttkit:token"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = 3 * time.Second
	}
}

// RedisStore is a Store backed by Redis string keys with native TTLs.
type RedisStore struct {
	rdb       goredis.UniversalClient
	keyPrefix string
	log       *logger.Logger
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig, log *logger.Logger) (*RedisStore, error) {
	cfg.ApplyDefaults()
	if cfg.Addr == "" {
		return nil, fmt.Errorf("tokenstore: redis addr is required")
	}
	if log == nil {
		log = logger.Get("tokenstore")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("tokenstore: redis ping %s: %w", cfg.Addr, err)
	}

	log.Info("token store connected", logger.Fields("addr", cfg.Addr, "db", cfg.DB))
	return NewRedisStoreFromClient(rdb, cfg.KeyPrefix, log), nil
}

// NewRedisStoreFromClient wraps an existing go-redis client.
func NewRedisStoreFromClient(rdb goredis.UniversalClient, keyPrefix string, log *logger.Logger) *RedisStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisStore{rdb: rdb, keyPrefix: keyPrefix, log: log}
}

func (s *RedisStore) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := s.rdb.Get(ctx, s.fullKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tokenstore get %q: %w", key, err)
	}
	return token, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.fullKey(key), token, ttl).Err(); err != nil {
		return fmt.Errorf("tokenstore set %q: %w", key, err)
	}
	s.log.Debug("token stored", logger.Fields("key", key, "ttl", ttl.String()))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("tokenstore delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

var _ Store = (*RedisStore)(nil)
