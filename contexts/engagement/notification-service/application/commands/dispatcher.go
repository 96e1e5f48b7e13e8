package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "stackit/contexts/engagement/notification-service/application"
	"stackit/contexts/engagement/notification-service/domain/entities"
	domainerrors "stackit/contexts/engagement/notification-service/domain/errors"
	"stackit/contexts/engagement/notification-service/ports"
	"stackit/internal/platform/realtime"
)

// Dispatcher is the event dispatcher: it reacts to domain outcomes by
// persisting a notification and then pushing it to the recipient's live
// connections. Persistence comes first; a failed live push is the registry's
// problem, never the caller's.
type Dispatcher struct {
	Notifications ports.NotificationRepository
	Users         ports.UserDirectory
	Live          ports.LiveStream
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// AnswerSubmittedInput describes a fresh answer on someone's question.
type AnswerSubmittedInput struct {
	QuestionOwnerID string
	AnswererID      string
	AnswererName    string
	QuestionTitle   string
}

// AnswerSubmitted notifies the question owner about a new answer. Answering
// your own question produces nothing.
func (d Dispatcher) AnswerSubmitted(ctx context.Context, in AnswerSubmittedInput) (entities.Notification, error) {
	recipientID := strings.TrimSpace(in.QuestionOwnerID)
	if recipientID == "" {
		return entities.Notification{}, domainerrors.ErrInvalidNotificationInput
	}
	if recipientID == strings.TrimSpace(in.AnswererID) {
		return entities.Notification{}, nil
	}
	message := fmt.Sprintf("%s answered your question: %s", in.AnswererName, in.QuestionTitle)
	return d.deliver(ctx, recipientID, message)
}

// AnswerAcceptedInput describes an answer being accepted by the question owner.
type AnswerAcceptedInput struct {
	AnswerOwnerID string
	AccepterID    string
	AccepterName  string
	QuestionTitle string
}

// AnswerAccepted notifies the answer owner their answer was accepted. The
// owner accepting their own answer produces nothing.
func (d Dispatcher) AnswerAccepted(ctx context.Context, in AnswerAcceptedInput) (entities.Notification, error) {
	recipientID := strings.TrimSpace(in.AnswerOwnerID)
	if recipientID == "" {
		return entities.Notification{}, domainerrors.ErrInvalidNotificationInput
	}
	if recipientID == strings.TrimSpace(in.AccepterID) {
		return entities.Notification{}, nil
	}
	message := fmt.Sprintf("Your answer to \"%s\" was accepted by %s", in.QuestionTitle, in.AccepterName)
	return d.deliver(ctx, recipientID, message)
}

// AdminBroadcast persists one notification per known user and pushes each to
// the recipient's live connections. Per-recipient failures are logged and
// skipped so one bad record never aborts the batch. Returns the number of
// recipients reached.
func (d Dispatcher) AdminBroadcast(ctx context.Context, message string) (int, error) {
	logger := application.ResolveLogger(d.Logger)
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, domainerrors.ErrInvalidNotificationInput
	}

	users, err := d.Users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, user := range users {
		if _, err := d.deliver(ctx, user.UserID, message); err != nil {
			logger.Error("broadcast recipient skipped",
				"event", "notification_broadcast_recipient_failed",
				"module", "engagement/notification-service",
				"layer", "application",
				"recipient_id", user.UserID,
				"error", err.Error(),
			)
			continue
		}
		delivered++
	}

	logger.Info("broadcast dispatched",
		"event", "notification_broadcast_dispatched",
		"module", "engagement/notification-service",
		"layer", "application",
		"recipients", len(users),
		"delivered", delivered,
	)
	return delivered, nil
}

func (d Dispatcher) deliver(ctx context.Context, recipientID string, message string) (entities.Notification, error) {
	logger := application.ResolveLogger(d.Logger)
	notificationID, err := d.IDGen.NewID(ctx)
	if err != nil {
		return entities.Notification{}, err
	}
	notification := entities.Notification{
		NotificationID: notificationID,
		RecipientID:    recipientID,
		Message:        message,
		CreatedAt:      d.now(),
	}
	if err := d.Notifications.SaveNotification(ctx, notification); err != nil {
		return entities.Notification{}, err
	}
	if d.Live != nil {
		d.Live.Publish(recipientID, realtime.NotificationEvent(
			notification.NotificationID,
			notification.Message,
			notification.CreatedAt,
		))
	}
	logger.Info("notification dispatched",
		"event", "notification_dispatched",
		"module", "engagement/notification-service",
		"layer", "application",
		"notification_id", notification.NotificationID,
		"recipient_id", recipientID,
	)
	return notification, nil
}

func (d Dispatcher) now() time.Time {
	now := time.Now().UTC()
	if d.Clock != nil {
		now = d.Clock.Now().UTC()
	}
	return now
}
