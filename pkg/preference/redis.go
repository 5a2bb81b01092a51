package preference

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the preference under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) (store *RedisStore) {
	store = &RedisStore{
		client: client,
		key:    key,
	}
	return store
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int, key string) (store *RedisStore, err error) {
	if addr == "" {
		err = errors.New("redis address is required")
		return store, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()
		err = errors.Wrapf(err, "unable to connect to redis at %s", addr)
		return store, err
	}

	store = NewRedisStore(client, key)
	return store, err
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context) (code string, found bool, err error) {
	code, err = s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		code = ""
		err = nil
		return code, found, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s from redis", s.key)
		return code, found, err
	}

	found = true
	return code, found, err
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, code string) (err error) {
	err = s.client.Set(ctx, s.key, code, 0).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s to redis", s.key)
		return err
	}
	return err
}

// Close implements Store.
func (s *RedisStore) Close() (err error) {
	err = s.client.Close()
	return err
}
