package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"turnero/models"
	"turnero/utils"
)

// QueueKey is the Redis list drained by the delivery workers.
const QueueKey = "notifications:outbound"

// Notifier hands a payload off for delivery. Delivery itself (push,
// email, SMS) is owned by downstream workers, not this service.
type Notifier interface {
	Notify(ctx context.Context, payload models.NotificationPayload) error
}

// QueueNotifier pushes payloads onto a Redis list for the delivery
// workers to consume.
type QueueNotifier struct {
	Client *redis.Client
}

func NewQueueNotifier(client *redis.Client) *QueueNotifier {
	return &QueueNotifier{Client: client}
}

func (q *QueueNotifier) Notify(ctx context.Context, payload models.NotificationPayload) error {
	if payload.SentAt.IsZero() {
		payload.SentAt = time.Now()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	if err := q.Client.LPush(ctx, QueueKey, raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification for client %s: %w", payload.ClientID, err)
	}
	utils.GetLogger().Debug("Notification enqueued",
		zap.String("type", payload.Type),
		zap.String("clientID", payload.ClientID))
	return nil
}

// LogNotifier writes payloads to the log instead of a queue. Used in
// development and tests where no delivery pipeline exists.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, payload models.NotificationPayload) error {
	utils.GetLogger().Info("Notification (log only)",
		zap.String("type", payload.Type),
		zap.String("clientID", payload.ClientID),
		zap.String("title", payload.Title),
		zap.String("body", payload.Body))
	return nil
}
