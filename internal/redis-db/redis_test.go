package redis_db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected *redis.Options
		wantErr  bool
	}{
		{
			name:     "simple docker style",
			url:      "redis:6379",
			expected: &redis.Options{Addr: "redis:6379"},
		},
		{
			name:     "redis url with password",
			url:      "redis://:password123@localhost:6379",
			expected: &redis.Options{Addr: "localhost:6379", Password: "password123"},
		},
		{
			name:    "garbage url",
			url:     "redis://user:pass:word@::bad",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedisURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected.Addr, got.Addr)
			assert.Equal(t, tt.expected.Password, got.Password)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	t.Run("empty addresses", func(t *testing.T) {
		_, err := NewRedisClient(nil)
		assert.Error(t, err)
	})

	t.Run("single address", func(t *testing.T) {
		client, err := NewRedisClient([]string{mr.Addr()})
		require.NoError(t, err)
		require.NotNil(t, client.Client())

		ctx := context.Background()
		assert.NoError(t, client.Client().Set(ctx, "k", "v", time.Minute).Err())
		got, err := client.Client().Get(ctx, "k").Result()
		assert.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("unreachable address", func(t *testing.T) {
		_, err := NewRedisClient([]string{"localhost:1"})
		assert.Error(t, err)
	})
}
