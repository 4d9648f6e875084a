package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSubscriber_DefaultUnsubscribed(t *testing.T) {
	s := NewSubscriber(10, 1)
	require.False(t, s.Subscribed)
	require.Equal(t, int64(10), s.ChatID)
	require.Equal(t, int64(1), s.UserID)

	s.SetSubscribed(true)
	require.True(t, s.Subscribed)
}
