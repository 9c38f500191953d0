package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotifier(t *testing.T) (*Notifier, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewNotifier(rdb), rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishUser(context.Background(), 1, "test payload"))
	assert.NoError(t, n.PublishBroadcast(context.Background(), "test payload"))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
	n.EmitBroadcast(context.Background(), EventPostCreated, map[string]uint{"id": 1})
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestNotifier_EmitUserDelivers(t *testing.T) {
	n, rdb := setupNotifier(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, UserChannel(7))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n.EmitUser(ctx, 7, EventFollowerAdded, map[string]string{"follower": "leo"})

	select {
	case msg := <-sub.Channel():
		var event struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, EventFollowerAdded, event.Type)
		assert.Equal(t, "leo", event.Payload["follower"])
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestNotifier_PatternSubscriberStopsOnCancel(t *testing.T) {
	n, _ := setupNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channels := make(chan string, 2)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel string, _ string) {
		channels <- channel
	}))

	require.NoError(t, n.PublishBroadcast(context.Background(), `{"type":"ping"}`))
	select {
	case ch := <-channels:
		assert.Equal(t, BroadcastChannel, ch)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive broadcast")
	}

	require.NoError(t, n.PublishUser(context.Background(), 3, `{"type":"ping"}`))
	select {
	case ch := <-channels:
		assert.Equal(t, "notifications:user:3", ch)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive user message")
	}

	cancel()
}
