package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemorySubscriberRepository_GetCreatesOnce(t *testing.T) {
	repo := NewMemorySubscriberRepository()
	ctx := context.Background()

	a, err := repo.Get(ctx, 10, 1)
	require.NoError(t, err)
	b, err := repo.Get(ctx, 10, 2)
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, int64(1), b.UserID)
}

func TestMemorySubscriberRepository_ListSubscribed(t *testing.T) {
	repo := NewMemorySubscriberRepository()
	ctx := context.Background()

	for _, chat := range []int64{30, 10, 20} {
		_, err := repo.Get(ctx, chat, 1)
		require.NoError(t, err)
		require.NoError(t, repo.SetSubscribed(ctx, chat, true))
	}
	require.NoError(t, repo.SetSubscribed(ctx, 20, false))
	// неизвестный чат игнорируется
	require.NoError(t, repo.SetSubscribed(ctx, 99, true))

	subs, err := repo.ListSubscribed(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, int64(10), subs[0].ChatID)
	require.Equal(t, int64(30), subs[1].ChatID)
}
