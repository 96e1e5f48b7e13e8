package queries

import (
	"context"
	"strings"

	"stackit/contexts/engagement/notification-service/domain/entities"
	domainerrors "stackit/contexts/engagement/notification-service/domain/errors"
	"stackit/contexts/engagement/notification-service/ports"
)

// InboxQueries serves notification reads.
type InboxQueries struct {
	Notifications ports.NotificationRepository
}

// ListNotifications returns the caller's notifications, newest first.
func (uc InboxQueries) ListNotifications(ctx context.Context, callerID string) ([]entities.Notification, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, domainerrors.ErrInvalidNotificationInput
	}
	return uc.Notifications.ListNotificationsFor(ctx, strings.TrimSpace(callerID))
}
