//go:build integration

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientdir/internal/platform/config"
	platformredis "patientdir/internal/platform/redis"
	"patientdir/pkg/platform/sentinel"
	"patientdir/pkg/testutil/containers"
)

func TestRedisSourceAgainstContainer(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	require.NoError(t, rc.Client.Set(ctx, "patientdir:records", doc, 0).Err())

	cfg := config.DefaultRedis()
	cfg.URL = rc.URL
	client, err := platformredis.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	data, err := NewRedis(client, "patientdir:records").Fetch(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))

	_, err = NewRedis(client, "patientdir:missing").Fetch(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
