package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCommands is the subset of redis.Cmdable used by Redis.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis stores sessions as JSON strings under Prefix+token, without expiry,
// so every process behind a load balancer shares them.
type Redis struct {
	client redisCommands
	prefix string
}

var _ Store = (*Redis)(nil)

// NewRedis wraps an existing client. An empty prefix defaults to "session:".
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return newRedis(client, prefix)
}

func newRedis(client redisCommands, prefix string) *Redis {
	if prefix == "" {
		prefix = "session:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Create(ctx context.Context, identity Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("sessions: encode identity: %w", err)
	}
	token := newToken()
	ok, err := r.client.SetNX(ctx, r.key(token), payload, 0).Result()
	if err != nil {
		return "", fmt.Errorf("sessions: store: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("sessions: token collision")
	}
	return token, nil
}

func (r *Redis) Get(ctx context.Context, token string) (Identity, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, false, nil
	}
	raw, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("sessions: load: %w", err)
	}
	var identity Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return Identity{}, false, fmt.Errorf("sessions: decode identity: %w", err)
	}
	return identity, true, nil
}

func (r *Redis) Delete(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, ErrEmptyToken
	}
	n, err := r.client.Del(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("sessions: delete: %w", err)
	}
	return n > 0, nil
}

func (r *Redis) key(token string) string {
	return r.prefix + token
}
