package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "stackit/contexts/internal-ops/admin-service/domain/errors"
	"stackit/contexts/internal-ops/admin-service/ports"
)

const (
	actionBanUser = "user.ban"
)

// Service implements the admin operations. Auth is resolved by the transport
// layer; actor ids arriving here are already verified admins.
type Service struct {
	Stats  ports.StatsSource
	Users  ports.UserAdminRepository
	Audit  ports.AuditRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Reports returns the current entity counts plus the generation timestamp.
// Counts are independent reads, not a snapshot; the report tolerates skew.
func (s Service) Reports(ctx context.Context) (ports.Report, error) {
	users, err := s.Stats.CountUsers(ctx)
	if err != nil {
		return ports.Report{}, err
	}
	questions, err := s.Stats.CountQuestions(ctx)
	if err != nil {
		return ports.Report{}, err
	}
	answers, err := s.Stats.CountAnswers(ctx)
	if err != nil {
		return ports.Report{}, err
	}
	notifications, err := s.Stats.CountNotifications(ctx)
	if err != nil {
		return ports.Report{}, err
	}
	return ports.Report{
		Users:         users,
		Questions:     questions,
		Answers:       answers,
		Notifications: notifications,
		GeneratedAt:   s.now(),
	}, nil
}

// BanUser removes the user record and appends the action to the audit trail.
// The audit append is best-effort once the ban itself is durable.
func (s Service) BanUser(ctx context.Context, actorID string, userID string) error {
	logger := s.logger()
	actorID = strings.TrimSpace(actorID)
	userID = strings.TrimSpace(userID)
	if actorID == "" || userID == "" {
		return domainerrors.ErrInvalidInput
	}

	if err := s.Users.DeleteUser(ctx, userID); err != nil {
		return err
	}

	if s.Audit != nil {
		auditID, err := s.IDGen.NewID(ctx)
		if err == nil {
			err = s.Audit.AppendAuditLog(ctx, ports.AuditLog{
				AuditID:    auditID,
				ActorID:    actorID,
				Action:     actionBanUser,
				TargetID:   userID,
				OccurredAt: s.now(),
			})
		}
		if err != nil {
			logger.Error("ban audit append failed",
				"event", "admin_ban_audit_failed",
				"module", "internal-ops/admin-service",
				"layer", "application",
				"actor_id", actorID,
				"target_id", userID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("user banned",
		"event", "admin_user_banned",
		"module", "internal-ops/admin-service",
		"layer", "application",
		"actor_id", actorID,
		"target_id", userID,
	)
	return nil
}

// ListRecentActions serves the audit trail, newest first.
func (s Service) ListRecentActions(ctx context.Context, limit int) ([]ports.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.Audit.ListRecentAuditLogs(ctx, limit)
}

func (s Service) now() time.Time {
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	return now
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
