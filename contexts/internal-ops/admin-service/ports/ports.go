package ports

import (
	"context"
	"time"
)

// Report is a point-in-time census of the board's primary records.
type Report struct {
	Users         int
	Questions     int
	Answers       int
	Notifications int
	GeneratedAt   time.Time
}

// StatsSource exposes the entity counts the operational report aggregates.
type StatsSource interface {
	CountUsers(ctx context.Context) (int, error)
	CountQuestions(ctx context.Context) (int, error)
	CountAnswers(ctx context.Context) (int, error)
	CountNotifications(ctx context.Context) (int, error)
}

// UserAdminRepository applies moderation actions to user records. A ban
// removes the record outright.
type UserAdminRepository interface {
	DeleteUser(ctx context.Context, userID string) error
}

// AuditLog records one admin action for the trail.
type AuditLog struct {
	AuditID    string
	ActorID    string
	Action     string
	TargetID   string
	OccurredAt time.Time
}

type AuditRepository interface {
	AppendAuditLog(ctx context.Context, row AuditLog) error
	ListRecentAuditLogs(ctx context.Context, limit int) ([]AuditLog, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
