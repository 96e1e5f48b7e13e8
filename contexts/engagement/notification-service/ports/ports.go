package ports

import (
	"context"
	"time"

	contractsv1 "stackit/contracts/gen/events/v1"
	"stackit/contexts/engagement/notification-service/domain/entities"
	"stackit/internal/platform/realtime"
)

// NotificationRepository persists the notification store. ListNotificationsFor
// returns newest first; MarkNotificationRead is idempotent per record.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification entities.Notification) error
	GetNotification(ctx context.Context, notificationID string) (entities.Notification, error)
	ListNotificationsFor(ctx context.Context, recipientID string) ([]entities.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) (entities.Notification, error)
}

// UserRef is the read-only projection of the external user record.
type UserRef struct {
	UserID   string
	Username string
	Role     string
}

// UserDirectory resolves and enumerates known users. ListUsers backs the
// admin broadcast's full recipient scan.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (UserRef, error)
	ListUsers(ctx context.Context) ([]UserRef, error)
}

// LiveStream is the boundary to the channel registry. Pushes are
// best-effort; failures surface through the registry's own unregister
// handling, never through these calls.
type LiveStream interface {
	Publish(userID string, event realtime.Event)
	Broadcast(event realtime.Event)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// EventDedupStore provides idempotent processing guarantees for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
