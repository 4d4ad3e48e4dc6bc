package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects to a running redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: connecting to the container
		redisStorage, err := NewRedisStorage(ctx, st.RedisAddr)

		// Then: the connection is usable and closes cleanly
		require.NoError(t, err)
		require.NoError(t, redisStorage.Connection.Ping(ctx).Err())
		require.NoError(t, redisStorage.Close())
	})

	t.Run("Fails when nothing listens", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		// When: connecting to a closed port
		_, err := NewRedisStorage(ctx, "127.0.0.1:1")

		// Then: the error is reported
		require.Error(t, err)
	})
}
