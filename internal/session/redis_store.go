package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "quiz:session:"

type RedisStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Redis: rdb, TTL: ttl}
}

func samplesKey(sessionID string) string {
	return keyPrefix + sessionID + ":samples"
}

func flashesKey(sessionID string) string {
	return keyPrefix + sessionID + ":flashes"
}

func (s *RedisStore) SaveSample(ctx context.Context, sessionID string, attemptID uint, questionIDs []uint) error {
	payload, err := json.Marshal(questionIDs)
	if err != nil {
		return err
	}

	key := samplesKey(sessionID)
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, strconv.FormatUint(uint64(attemptID), 10), payload)
	pipe.Expire(ctx, key, s.TTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) LoadSample(ctx context.Context, sessionID string, attemptID uint) ([]uint, error) {
	raw, err := s.Redis.HGet(ctx, samplesKey(sessionID), strconv.FormatUint(uint64(attemptID), 10)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSample
	}
	if err != nil {
		return nil, err
	}

	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode sample for attempt %d: %w", attemptID, err)
	}
	return ids, nil
}

func (s *RedisStore) ClearSample(ctx context.Context, sessionID string, attemptID uint) error {
	return s.Redis.HDel(ctx, samplesKey(sessionID), strconv.FormatUint(uint64(attemptID), 10)).Err()
}

func (s *RedisStore) AddFlash(ctx context.Context, sessionID, message string) error {
	key := flashesKey(sessionID)
	pipe := s.Redis.TxPipeline()
	pipe.RPush(ctx, key, message)
	pipe.Expire(ctx, key, s.TTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) PopFlashes(ctx context.Context, sessionID string) ([]string, error) {
	key := flashesKey(sessionID)
	pipe := s.Redis.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return lrange.Val(), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Redis.Ping(ctx).Err()
}
