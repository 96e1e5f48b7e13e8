package postgresadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "stackit/contexts/internal-ops/admin-service/domain/errors"
	"stackit/contexts/internal-ops/admin-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	return r.countTable(ctx, "users")
}

func (r *Repository) CountQuestions(ctx context.Context) (int, error) {
	return r.countTable(ctx, "questions")
}

func (r *Repository) CountAnswers(ctx context.Context) (int, error) {
	return r.countTable(ctx, "answers")
}

func (r *Repository) CountNotifications(ctx context.Context) (int, error) {
	return r.countTable(ctx, "notifications")
}

func (r *Repository) countTable(ctx context.Context, table string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
		return 0, r.logError("admin_repo_count_failed", err, "table", table)
	}
	return int(count), nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", strings.TrimSpace(userID)).
		Delete(nil)
	if result.Error != nil {
		return r.logError("admin_repo_delete_user_failed", result.Error,
			"user_id", strings.TrimSpace(userID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) AppendAuditLog(ctx context.Context, row ports.AuditLog) error {
	model := auditLogModel{
		ID:         strings.TrimSpace(row.AuditID),
		ActorID:    strings.TrimSpace(row.ActorID),
		Action:     strings.TrimSpace(row.Action),
		TargetID:   strings.TrimSpace(row.TargetID),
		OccurredAt: row.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return r.logError("admin_repo_append_audit_failed", err, "audit_id", model.ID)
	}
	return nil
}

func (r *Repository) ListRecentAuditLogs(ctx context.Context, limit int) ([]ports.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []auditLogModel
	if err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("admin_repo_list_audit_failed", err, "limit", limit)
	}
	items := make([]ports.AuditLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.AuditLog{
			AuditID:    row.ID,
			ActorID:    row.ActorID,
			Action:     row.Action,
			TargetID:   row.TargetID,
			OccurredAt: row.OccurredAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "internal-ops/admin-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("admin repository operation failed", fields...)
	return err
}

type auditLogModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ActorID    string    `gorm:"column:actor_id"`
	Action     string    `gorm:"column:action"`
	TargetID   string    `gorm:"column:target_id"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (auditLogModel) TableName() string {
	return "admin_audit_logs"
}
