package checklist

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/models"

	"github.com/redis/go-redis/v9"
)

const defaultTxRetries = 5

// RedisStore keeps each section as a JSON value and serialises read-modify-write
// cycles with WATCH/MULTI, retrying when another writer touched the key first.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	retries int
}

type RedisOption func(*RedisStore)

// WithTTL expires section state ttl after its last write; zero keeps it forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

func WithTxRetries(n int) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.retries = n
		}
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "checklist", retries: defaultTxRetries}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// redisKey escapes both parts so ids containing ':' cannot collide.
func (s *RedisStore) redisKey(key Key) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, url.QueryEscape(key.SessionID), url.QueryEscape(key.SectionID))
}

func (s *RedisStore) Load(ctx context.Context, key Key) (*models.SectionProgress, error) {
	progress, err := s.read(ctx, s.client, s.redisKey(key))
	if err != nil {
		return nil, errors.NewStateStoreError("load", err)
	}
	return progress, nil
}

func (s *RedisStore) read(ctx context.Context, c redis.Cmdable, rkey string) (*models.SectionProgress, error) {
	raw, err := c.Get(ctx, rkey).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var progress models.SectionProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		return nil, fmt.Errorf("decode %s: %w", rkey, err)
	}
	return &progress, nil
}

func (s *RedisStore) Update(ctx context.Context, key Key, fn UpdateFunc) (*models.SectionProgress, error) {
	rkey := s.redisKey(key)

	for attempt := 0; attempt < s.retries; attempt++ {
		var (
			result *models.SectionProgress
			fnErr  error
		)
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			current, err := s.read(ctx, tx, rkey)
			if err != nil {
				return err
			}
			next, err := fn(current)
			if err != nil {
				fnErr = err
				return err
			}
			payload, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("encode %s: %w", rkey, err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, rkey, payload, s.ttl)
				return nil
			})
			result = next
			return err
		}, rkey)

		switch {
		case err == nil:
			return result, nil
		case fnErr != nil:
			return nil, fnErr
		case stderrors.Is(err, redis.TxFailedErr):
			continue
		default:
			return nil, errors.NewStateStoreError("update", err)
		}
	}
	return nil, errors.NewStateStoreError("update", fmt.Errorf("%s: gave up after %d conflicting writes: %w", rkey, s.retries, redis.TxFailedErr))
}
