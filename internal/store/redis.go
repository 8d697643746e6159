package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// deletedPayload marks a Delete on the pub/sub channel; subscribers
// translate it to a nil document.
const deletedPayload = "null"

// RedisStore keeps each document as a JSON string at its path and
// fans out writes over a per-path pub/sub channel.
type RedisStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisStore(client *redis.Client, log *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func channelFor(path string) string {
	return "watch:" + path
}

func (s *RedisStore) Get(ctx context.Context, path string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, path).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	if err := s.client.Set(ctx, path, raw, 0).Err(); err != nil {
		return fmt.Errorf("store: set %s: %w", path, err)
	}
	if err := s.client.Publish(ctx, channelFor(path), raw).Err(); err != nil {
		return fmt.Errorf("store: notify %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, path).Err(); err != nil {
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	if err := s.client.Publish(ctx, channelFor(path), deletedPayload).Err(); err != nil {
		return fmt.Errorf("store: notify %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) Subscribe(ctx context.Context, path string, fn func(raw []byte)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, channelFor(path))
	// Force the SUBSCRIBE to complete before the snapshot read, so no
	// write can slip between them unseen.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("store: subscribe %s: %w", path, err)
	}

	snapshot, err := s.client.Get(ctx, path).Bytes()
	if errors.Is(err, redis.Nil) {
		snapshot = nil
	} else if err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("store: subscribe snapshot %s: %w", path, err)
	}

	go func() {
		fn(snapshot)
		for msg := range pubsub.Channel() {
			if msg.Payload == deletedPayload {
				fn(nil)
				continue
			}
			fn([]byte(msg.Payload))
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			s.log.WithError(err).WithField("path", path).Warn("closing subscription")
		}
	}, nil
}

// ListPaths returns every stored path matching a glob pattern. Not
// part of the Store contract; the backfill utility scans /rooms/*
// with it.
func (s *RedisStore) ListPaths(ctx context.Context, pattern string) ([]string, error) {
	return s.client.Keys(ctx, pattern).Result()
}
