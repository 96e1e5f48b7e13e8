package realtime

import "time"

// Event kinds pushed over live channels.
const (
	KindNotification = "notification"
	KindNewQuestion  = "newQuestion"
)

// Event is the wire payload delivered to live connections. Targeted
// notification events carry the durable notification identifier and creation
// time; broadcast-style events carry only a message.
type Event struct {
	Kind           string     `json:"kind"`
	NotificationID string     `json:"notificationId,omitempty"`
	Message        string     `json:"message"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// NotificationEvent builds the targeted payload for a persisted notification.
func NotificationEvent(notificationID string, message string, createdAt time.Time) Event {
	at := createdAt.UTC()
	return Event{
		Kind:           KindNotification,
		NotificationID: notificationID,
		Message:        message,
		CreatedAt:      &at,
	}
}

// NewQuestionEvent builds the broadcast payload announcing a fresh question.
func NewQuestionEvent(message string) Event {
	return Event{
		Kind:    KindNewQuestion,
		Message: message,
	}
}
