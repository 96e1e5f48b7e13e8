package commands

import (
	"context"
	"log/slog"
	"strings"

	application "stackit/contexts/engagement/notification-service/application"
	"stackit/contexts/engagement/notification-service/domain/entities"
	domainerrors "stackit/contexts/engagement/notification-service/domain/errors"
	"stackit/contexts/engagement/notification-service/ports"
)

// InboxUseCase serves the recipient-facing notification operations.
type InboxUseCase struct {
	Notifications ports.NotificationRepository
	Logger        *slog.Logger
}

// MarkRead marks a notification read for its recipient. Marking an
// already-read notification succeeds without change; anyone other than the
// recipient is rejected without revealing whether the record exists beyond
// the not-found distinction the recipient check needs.
func (uc InboxUseCase) MarkRead(ctx context.Context, notificationID string, callerID string) (entities.Notification, error) {
	logger := application.ResolveLogger(uc.Logger)
	notificationID = strings.TrimSpace(notificationID)
	callerID = strings.TrimSpace(callerID)
	if notificationID == "" || callerID == "" {
		return entities.Notification{}, domainerrors.ErrInvalidNotificationInput
	}

	notification, err := uc.Notifications.GetNotification(ctx, notificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if notification.RecipientID != callerID {
		logger.Warn("mark read rejected for non-recipient",
			"event", "notification_mark_read_forbidden",
			"module", "engagement/notification-service",
			"layer", "application",
			"notification_id", notificationID,
			"caller_id", callerID,
		)
		return entities.Notification{}, domainerrors.ErrForbidden
	}
	if notification.Read {
		return notification, nil
	}
	return uc.Notifications.MarkNotificationRead(ctx, notificationID)
}
