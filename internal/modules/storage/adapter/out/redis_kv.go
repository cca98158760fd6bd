package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisPipeKey struct{}

// RedisKV keeps each key under a common prefix. Transactions queue writes in
// a MULTI/EXEC pipeline that is executed when the callback succeeds.
type RedisKV struct {
	rdb    *goredis.Client
	prefix string
}

func NewRedisKV(ctx context.Context, addr, prefix string) (*RedisKV, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisKV{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisKV) key(key string) string {
	return r.prefix + key
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if pipe, ok := ctx.Value(redisPipeKey{}).(goredis.Pipeliner); ok {
		pipe.Set(ctx, r.key(key), value, 0)
		return nil
	}
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if pipe, ok := ctx.Value(redisPipeKey{}).(goredis.Pipeliner); ok {
		pipe.Del(ctx, r.key(key))
		return nil
	}
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(redisPipeKey{}).(goredis.Pipeliner); ok {
		return fn(ctx)
	}
	pipe := r.rdb.TxPipeline()
	if err := fn(context.WithValue(ctx, redisPipeKey{}, pipe)); err != nil {
		pipe.Discard()
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis exec: %w", err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
