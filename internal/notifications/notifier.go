// Package notifications publishes application events into Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"

	"yatube/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	// BroadcastChannel receives events every client may see.
	BroadcastChannel = "notifications:broadcast"
	userChannelPrefix = "notifications:user:"
)

// Event types.
const (
	EventPostCreated   = "post_created"
	EventFollowerAdded = "follower_added"
	EventCommentAdded  = "comment_added"
)

// Event is the JSON envelope of every published message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events actually leave the process.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends a notification payload to all listeners.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, BroadcastChannel, payload).Err()
}

// EmitUser encodes an event for one user. Failures are logged, never returned.
func (n *Notifier) EmitUser(ctx context.Context, userID uint, eventType string, payload interface{}) {
	if !n.Enabled() {
		return
	}
	encoded, err := encode(eventType, payload)
	if err == nil {
		err = n.PublishUser(ctx, userID, encoded)
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish user event",
			slog.String("type", eventType), slog.Uint64("recipient", uint64(userID)), slog.String("error", err.Error()))
	}
}

// EmitBroadcast encodes an event for every listener. Failures are logged, never returned.
func (n *Notifier) EmitBroadcast(ctx context.Context, eventType string, payload interface{}) {
	if !n.Enabled() {
		return
	}
	encoded, err := encode(eventType, payload)
	if err == nil {
		err = n.PublishBroadcast(ctx, encoded)
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish broadcast event",
			slog.String("type", eventType), slog.String("error", err.Error()))
	}
}

func encode(eventType string, payload interface{}) (string, error) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(data), nil
}

// StartPatternSubscriber subscribes to every user channel and the broadcast channel
// and calls onMessage for each incoming message until ctx is done.
func (n *Notifier) StartPatternSubscriber(ctx context.Context, onMessage func(channel string, payload string)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*", BroadcastChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}
