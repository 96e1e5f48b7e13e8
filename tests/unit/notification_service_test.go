package unit

import (
	"context"
	"errors"
	"testing"

	notificationservice "stackit/contexts/engagement/notification-service"
	"stackit/contexts/engagement/notification-service/application/commands"
	"stackit/contexts/engagement/notification-service/domain/entities"
	domainerrors "stackit/contexts/engagement/notification-service/domain/errors"
	"stackit/contexts/engagement/notification-service/ports"
	httptransport "stackit/contexts/engagement/notification-service/transport/http"
	"stackit/internal/platform/realtime"
)

type capturingStream struct {
	published map[string][]realtime.Event
	broadcast []realtime.Event
}

func newCapturingStream() *capturingStream {
	return &capturingStream{published: make(map[string][]realtime.Event)}
}

func (s *capturingStream) Publish(userID string, event realtime.Event) {
	s.published[userID] = append(s.published[userID], event)
}

func (s *capturingStream) Broadcast(event realtime.Event) {
	s.broadcast = append(s.broadcast, event)
}

func TestDispatcherAnswerSubmittedMessage(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)

	notification, err := module.Dispatcher.AnswerSubmitted(context.Background(), commands.AnswerSubmittedInput{
		QuestionOwnerID: "owner-1",
		AnswererID:      "user-2",
		AnswererName:    "bob",
		QuestionTitle:   "How do channels close?",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	want := "bob answered your question: How do channels close?"
	if notification.Message != want {
		t.Fatalf("expected message %q, got %q", want, notification.Message)
	}
	if notification.RecipientID != "owner-1" {
		t.Fatalf("expected recipient owner-1, got %s", notification.RecipientID)
	}
	events := stream.published["owner-1"]
	if len(events) != 1 || events[0].Kind != realtime.KindNotification || events[0].Message != want {
		t.Fatalf("unexpected live events: %+v", events)
	}
}

func TestDispatcherAnswerSubmittedSelfSkip(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)

	notification, err := module.Dispatcher.AnswerSubmitted(context.Background(), commands.AnswerSubmittedInput{
		QuestionOwnerID: "owner-1",
		AnswererID:      "owner-1",
		AnswererName:    "alice",
		QuestionTitle:   "self answer",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if notification.NotificationID != "" {
		t.Fatalf("expected no notification for self answer, got %+v", notification)
	}
	if len(stream.published) != 0 {
		t.Fatalf("expected no live push, got %+v", stream.published)
	}
}

func TestDispatcherAnswerAcceptedMessage(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)

	notification, err := module.Dispatcher.AnswerAccepted(context.Background(), commands.AnswerAcceptedInput{
		AnswerOwnerID: "user-2",
		AccepterID:    "owner-1",
		AccepterName:  "alice",
		QuestionTitle: "How do channels close?",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	want := `Your answer to "How do channels close?" was accepted by alice`
	if notification.Message != want {
		t.Fatalf("expected message %q, got %q", want, notification.Message)
	}
}

func TestNotificationListNewestFirstAndMarkRead(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)

	first, err := module.Dispatcher.AnswerSubmitted(context.Background(), commands.AnswerSubmittedInput{
		QuestionOwnerID: "owner-1",
		AnswererID:      "user-2",
		AnswererName:    "bob",
		QuestionTitle:   "first",
	})
	if err != nil {
		t.Fatalf("dispatch first failed: %v", err)
	}
	second, err := module.Dispatcher.AnswerSubmitted(context.Background(), commands.AnswerSubmittedInput{
		QuestionOwnerID: "owner-1",
		AnswererID:      "user-3",
		AnswererName:    "carol",
		QuestionTitle:   "second",
	})
	if err != nil {
		t.Fatalf("dispatch second failed: %v", err)
	}

	list, err := module.Handler.ListNotificationsHandler(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list.Items))
	}
	if list.Items[0].NotificationID != second.NotificationID {
		t.Fatalf("expected newest first, got %+v", list.Items)
	}

	marked, err := module.Handler.MarkReadHandler(context.Background(), first.NotificationID, "owner-1")
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if !marked.Read {
		t.Fatalf("expected notification marked read")
	}

	// Marking again is a no-op, not an error.
	again, err := module.Handler.MarkReadHandler(context.Background(), first.NotificationID, "owner-1")
	if err != nil {
		t.Fatalf("repeat mark read failed: %v", err)
	}
	if !again.Read {
		t.Fatalf("expected notification to stay read")
	}
}

func TestNotificationMarkReadRecipientOnly(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)

	notification, err := module.Dispatcher.AnswerSubmitted(context.Background(), commands.AnswerSubmittedInput{
		QuestionOwnerID: "owner-1",
		AnswererID:      "user-2",
		AnswererName:    "bob",
		QuestionTitle:   "private",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if _, err := module.Handler.MarkReadHandler(context.Background(), notification.NotificationID, "user-2"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-recipient, got %v", err)
	}
}

func TestAdminBroadcastReachesEveryUser(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)
	module.Store.SetUser(ports.UserRef{UserID: "user-1", Username: "alice", Role: "user"})
	module.Store.SetUser(ports.UserRef{UserID: "user-2", Username: "bob", Role: "user"})
	module.Store.SetUser(ports.UserRef{UserID: "admin-1", Username: "root", Role: "admin"})

	resp, err := module.Handler.BroadcastHandler(context.Background(), httptransport.BroadcastRequest{
		Message: "Maintenance window tonight",
	})
	if err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}
	if resp.Delivered != 3 {
		t.Fatalf("expected 3 deliveries, got %d", resp.Delivered)
	}
	for _, userID := range []string{"user-1", "user-2", "admin-1"} {
		list, err := module.Handler.ListNotificationsHandler(context.Background(), userID)
		if err != nil {
			t.Fatalf("list for %s failed: %v", userID, err)
		}
		if len(list.Items) != 1 || list.Items[0].Message != "Maintenance window tonight" {
			t.Fatalf("unexpected inbox for %s: %+v", userID, list.Items)
		}
		if len(stream.published[userID]) != 1 {
			t.Fatalf("expected live push for %s", userID)
		}
	}
}

type flakyNotificationRepo struct {
	inner   ports.NotificationRepository
	failFor string
}

func (r flakyNotificationRepo) SaveNotification(ctx context.Context, notification entities.Notification) error {
	if notification.RecipientID == r.failFor {
		return errors.New("storage write refused")
	}
	return r.inner.SaveNotification(ctx, notification)
}

func (r flakyNotificationRepo) GetNotification(ctx context.Context, notificationID string) (entities.Notification, error) {
	return r.inner.GetNotification(ctx, notificationID)
}

func (r flakyNotificationRepo) ListNotificationsFor(ctx context.Context, recipientID string) ([]entities.Notification, error) {
	return r.inner.ListNotificationsFor(ctx, recipientID)
}

func (r flakyNotificationRepo) MarkNotificationRead(ctx context.Context, notificationID string) (entities.Notification, error) {
	return r.inner.MarkNotificationRead(ctx, notificationID)
}

func TestAdminBroadcastSkipsFailedRecipient(t *testing.T) {
	stream := newCapturingStream()
	module := notificationservice.NewInMemoryModule(stream, nil)
	module.Store.SetUser(ports.UserRef{UserID: "user-1", Username: "alice", Role: "user"})
	module.Store.SetUser(ports.UserRef{UserID: "user-2", Username: "bob", Role: "user"})
	module.Store.SetUser(ports.UserRef{UserID: "user-3", Username: "carol", Role: "user"})

	dispatcher := commands.Dispatcher{
		Notifications: flakyNotificationRepo{inner: module.Store, failFor: "user-2"},
		Users:         module.Store,
		Live:          stream,
		Clock:         module.Store,
		IDGen:         module.Store,
	}

	delivered, err := dispatcher.AdminBroadcast(context.Background(), "partial delivery")
	if err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries with one recipient skipped, got %d", delivered)
	}
	if len(stream.published["user-2"]) != 0 {
		t.Fatalf("expected no live push for failed recipient")
	}
	for _, userID := range []string{"user-1", "user-3"} {
		list, err := module.Handler.ListNotificationsHandler(context.Background(), userID)
		if err != nil {
			t.Fatalf("list for %s failed: %v", userID, err)
		}
		if len(list.Items) != 1 {
			t.Fatalf("expected notification persisted for %s", userID)
		}
	}
}

func TestAdminBroadcastRejectsEmptyMessage(t *testing.T) {
	module := notificationservice.NewInMemoryModule(newCapturingStream(), nil)
	if _, err := module.Handler.BroadcastHandler(context.Background(), httptransport.BroadcastRequest{Message: "   "}); !errors.Is(err, domainerrors.ErrInvalidNotificationInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
