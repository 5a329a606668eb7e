package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/report"
)

// DefaultKeyPrefix namespaces plan keys in Redis.
const DefaultKeyPrefix = "cortex:plan:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key. Empty means DefaultKeyPrefix.
	Prefix string

	// TTL is the expiry of stored plans. Zero means DefaultTTL.
	TTL time.Duration
}

// RedisStore keeps plan states in Redis, shared across server instances.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	s := &RedisStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
	if s.prefix == "" {
		s.prefix = DefaultKeyPrefix
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	return s
}

// Client returns the underlying Redis client for sharing with other
// Redis-backed components.
func (s *RedisStore) Client() *redis.Client { return s.client }

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) latestKey() string { return s.prefix + "@" + latestFile }

func (s *RedisStore) Get(ctx context.Context, id string) (report.State, error) {
	if err := errors.ValidatePlanID(id); err != nil {
		return report.State{}, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return report.State{}, notFound(id)
	}
	if err != nil {
		return report.State{}, fmt.Errorf("redis get: %w", err)
	}

	var st report.State
	if err := json.Unmarshal(data, &st); err != nil {
		return report.State{}, fmt.Errorf("parse plan: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Latest(ctx context.Context) (report.State, error) {
	id, err := s.client.Get(ctx, s.latestKey()).Result()
	if err == redis.Nil {
		return report.State{}, notFound("")
	}
	if err != nil {
		return report.State{}, fmt.Errorf("redis get: %w", err)
	}
	st, err := s.Get(ctx, id)
	if errors.Is(err, errors.ErrCodePlanNotFound) {
		return report.State{}, notFound("")
	}
	return st, err
}

func (s *RedisStore) Set(ctx context.Context, st report.State) error {
	if err := checkState(st); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(st.ID), data, s.ttl)
		pipe.Set(ctx, s.latestKey(), st.ID, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidatePlanID(id); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
