package seen

import (
	"context"

	"github.com/redis/go-redis/v9"

	"partsnotifier/logger"
	"partsnotifier/pkg/errors"
)

// RedisStore implements Store with a redis set. SADD is an atomic
// add-if-absent and its reply decides which caller gets to notify, so
// this backend stays correct even when independently scheduled runs
// overlap; the file store does not.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	key    string
	log    *logger.Logger
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a redis-backed seen-set store
func NewRedisStore(ctx context.Context, addr string, db int, key string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		ctx:    ctx,
		key:    key,
		log:    logger.ForSeenStore(),
	}
}

// Load verifies connectivity. An unreachable server is not fatal: the
// run proceeds as if the set were empty and every lookup misses.
func (s *RedisStore) Load() error {
	if err := s.client.Ping(s.ctx).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Redis unreachable, treating seen-set as empty")
	}
	return nil
}

// Contains reports whether the id is in the set. Lookup failures count
// as unseen, favoring a possible duplicate over a missed deal.
func (s *RedisStore) Contains(id string) bool {
	member, err := s.client.SIsMember(s.ctx, s.key, id).Result()
	if err != nil {
		return false
	}
	return member
}

// Add records the id. The write is durable immediately, and the SADD
// reply says whether this call was the one that inserted it.
func (s *RedisStore) Add(id string) (bool, error) {
	added, err := s.client.SAdd(s.ctx, s.key, id).Result()
	if err != nil {
		return false, errors.NewSeenStore("redis", "failed to add id", err)
	}
	return added > 0, nil
}

// Persist is a no-op: adds are durable as soon as they happen
func (s *RedisStore) Persist() error {
	return nil
}

// Close closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
