package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"stackit/contexts/engagement/notification-service/application/commands"
	"stackit/contexts/engagement/notification-service/application/queries"
	"stackit/contexts/engagement/notification-service/domain/entities"
	httptransport "stackit/contexts/engagement/notification-service/transport/http"
)

type Handler struct {
	Dispatcher commands.Dispatcher
	Inbox      commands.InboxUseCase
	Queries    queries.InboxQueries
	Logger     *slog.Logger
}

func (h Handler) ListNotificationsHandler(ctx context.Context, callerID string) (httptransport.NotificationListResponse, error) {
	notifications, err := h.Queries.ListNotifications(ctx, callerID)
	if err != nil {
		return httptransport.NotificationListResponse{}, err
	}
	items := make([]httptransport.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, toNotificationResponse(notification))
	}
	return httptransport.NotificationListResponse{Items: items}, nil
}

func (h Handler) MarkReadHandler(ctx context.Context, notificationID string, callerID string) (httptransport.NotificationResponse, error) {
	notification, err := h.Inbox.MarkRead(ctx, notificationID, callerID)
	if err != nil {
		return httptransport.NotificationResponse{}, err
	}
	return toNotificationResponse(notification), nil
}

func (h Handler) BroadcastHandler(ctx context.Context, req httptransport.BroadcastRequest) (httptransport.BroadcastResponse, error) {
	delivered, err := h.Dispatcher.AdminBroadcast(ctx, req.Message)
	if err != nil {
		return httptransport.BroadcastResponse{}, err
	}
	return httptransport.BroadcastResponse{Delivered: delivered}, nil
}

func toNotificationResponse(notification entities.Notification) httptransport.NotificationResponse {
	return httptransport.NotificationResponse{
		NotificationID: notification.NotificationID,
		Message:        notification.Message,
		Read:           notification.Read,
		CreatedAt:      notification.CreatedAt.UTC().Format(time.RFC3339),
	}
}
