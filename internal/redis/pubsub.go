package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const notificationsChannel = "maintgo:v1:notifications:pending"

// NotificationsPubSub nudges the delivery collaborator after a transition
// commits: the notification row is already durable in Postgres, the message
// only says "there is work for user X". Losing a message costs latency, not
// correctness, since the collaborator also polls the outbox.
type NotificationsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewNotificationsPubSub(rdb *redis.Client) *NotificationsPubSub {
	return &NotificationsPubSub{
		rdb:     rdb,
		channel: notificationsChannel,
	}
}

type notificationPendingMsg struct {
	Type           string    `json:"type"`
	UserID         int64     `json:"user_id"`
	NotificationID uuid.UUID `json:"notification_id"`
	TsUnix         int64     `json:"ts_unix"`
}

func (p *NotificationsPubSub) PublishPending(
	ctx context.Context,
	userID int64,
	notificationID uuid.UUID,
) error {
	msg := notificationPendingMsg{
		Type:           "notification_pending",
		UserID:         userID,
		NotificationID: notificationID,
		TsUnix:         time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *NotificationsPubSub) Subscribe(
	ctx context.Context,
	handler func(ctx context.Context, userID int64, notificationID uuid.UUID),
) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg notificationPendingMsg
			if err := json.Unmarshal([]byte(m.Payload), &msg); err == nil &&
				msg.NotificationID != uuid.Nil {
				handler(ctx, msg.UserID, msg.NotificationID)
			}
		}
	}
}
