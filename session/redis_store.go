package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisUpdateRetries = 5

// RedisStore keeps sessions as JSON strings under "<prefix>:<id>".
type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "booking_session"
	}
	return &RedisStore{Client: client, Prefix: prefix, TTL: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.Prefix + ":" + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*BookingSession, error) {
	if id == "" {
		return nil, ErrNoSessionID
	}
	return s.get(ctx, s.Client, id)
}

func (s *RedisStore) Save(ctx context.Context, id string, bs *BookingSession) error {
	if id == "" {
		return ErrNoSessionID
	}
	raw, err := json.Marshal(bs)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.Client.Set(ctx, s.key(id), raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoSessionID
	}
	if err := s.Client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Update uses WATCH/MULTI so two writers on the same key cannot both win.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*BookingSession) error) (*BookingSession, error) {
	if id == "" {
		return nil, ErrNoSessionID
	}
	key := s.key(id)
	var out *BookingSession

	txf := func(tx *redis.Tx) error {
		bs, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(bs); err != nil {
			return err
		}
		raw, err := json.Marshal(bs)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.TTL)
			return nil
		})
		if err == nil {
			out = bs
		}
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update session %s: too much contention", id)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) get(ctx context.Context, c stringGetter, id string) (*BookingSession, error) {
	raw, err := c.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return newSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	bs := newSession()
	if err := json.Unmarshal(raw, bs); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if bs.Flights == nil {
		bs.Flights = []Leg{}
	}
	return bs, nil
}
