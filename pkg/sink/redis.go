package sink

import (
	"context"
	"time"

	backend "github.com/redis/go-redis/v9"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
)

// DefaultRedisPrefix is the key prefix used when none is configured.
const DefaultRedisPrefix = "skillflow:export:"

// RedisOption configures a [RedisSink].
type RedisOption func(*RedisSink)

// WithRedisPrefix sets the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisSink) { s.prefix = prefix }
}

// WithRedisTTL sets the key expiration. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisSink) { s.ttl = ttl }
}

// RedisSink stores artifact bytes under <prefix><name> and the content type
// under <prefix><name>:type.
type RedisSink struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSink connects to a Redis server at addr.
func NewRedisSink(addr, password string, db int, opts ...RedisOption) *RedisSink {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisSinkFromClient(client, opts...)
}

// NewRedisSinkFromClient wraps an existing client.
func NewRedisSinkFromClient(client *backend.Client, opts ...RedisOption) *RedisSink {
	s := &RedisSink{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key holding the artifact data.
func (s *RedisSink) Key(name string) string { return s.prefix + name }

// Deliver stores the artifact in a single MULTI/EXEC transaction.
func (s *RedisSink) Deliver(ctx context.Context, a Artifact) error {
	key := s.Key(a.Name)
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, key, a.Data, s.ttl)
		pipe.Set(ctx, key+":type", a.ContentType, s.ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "store %s in redis", a.Name)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisSink) Close() error { return s.client.Close() }
