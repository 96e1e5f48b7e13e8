package entities

import "time"

// Notification is an immutable message addressed to one recipient. Read is
// the only mutable field and only ever moves false to true.
type Notification struct {
	NotificationID string
	RecipientID    string
	Message        string
	Read           bool
	CreatedAt      time.Time
}
