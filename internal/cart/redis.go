package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPersistence keeps the serialized line list under a single key per
// session. There is no versioning or migration path; a payload that fails to
// parse is reported as an error and the caller treats the cart as empty.
type RedisPersistence struct {
	client    *redis.Client
	sessionID string
	baseTTL   time.Duration
}

func NewRedisPersistence(client *redis.Client, sessionID string) *RedisPersistence {
	return &RedisPersistence{
		client:    client,
		sessionID: sessionID,
		baseTTL:   7 * 24 * time.Hour,
	}
}

func (r *RedisPersistence) Load(ctx context.Context) ([]Line, error) {
	data, err := r.client.Get(ctx, cartKey(r.sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return lines, nil
}

func (r *RedisPersistence) Save(ctx context.Context, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, cartKey(r.sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisPersistence) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, cartKey(r.sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
