package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"patientdir/pkg/platform/sentinel"
)

// StringGetter is the slice of the go-redis API the source needs.
type StringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis reads the document stored as a plain string value under Key.
type Redis struct {
	client StringGetter
	key    string
}

// NewRedis builds a redis source.
func NewRedis(client StringGetter, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) Name() string { return "redis" }

// Fetch GETs the key. A missing key maps to ErrNotFound.
func (r *Redis) Fetch(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: redis key %s", sentinel.ErrNotFound, r.key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis GET %s: %v", sentinel.ErrUnavailable, r.key, err)
	}
	return data, nil
}
