package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stackit/contexts/engagement/notification-service/domain/entities"
	domainerrors "stackit/contexts/engagement/notification-service/domain/errors"
	"stackit/contexts/engagement/notification-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) SaveNotification(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"read": row.Read,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("notification_repo_save_failed", create.Error,
			"notification_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetNotification(ctx context.Context, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(notificationID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, r.logError("notification_repo_get_failed", err,
			"notification_id", strings.TrimSpace(notificationID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListNotificationsFor(ctx context.Context, recipientID string) ([]entities.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", strings.TrimSpace(recipientID)).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_failed", err,
			"recipient_id", strings.TrimSpace(recipientID),
		)
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkNotificationRead(ctx context.Context, notificationID string) (entities.Notification, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ?", strings.TrimSpace(notificationID)).
		Update("read", true)
	if result.Error != nil {
		return entities.Notification{}, r.logError("notification_repo_mark_read_failed", result.Error,
			"notification_id", strings.TrimSpace(notificationID),
		)
	}
	if result.RowsAffected == 0 {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return r.GetNotification(ctx, notificationID)
}

func (r *Repository) GetUser(ctx context.Context, userID string) (ports.UserRef, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserRef{}, domainerrors.ErrUserNotFound
		}
		return ports.UserRef{}, r.logError("notification_repo_get_user_failed", err,
			"user_id", strings.TrimSpace(userID),
		)
	}
	return ports.UserRef{UserID: row.ID, Username: row.Username, Role: row.Role}, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]ports.UserRef, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_users_failed", err)
	}
	items := make([]ports.UserRef, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.UserRef{UserID: row.ID, Username: row.Username, Role: row.Role})
	}
	return items, nil
}

// ReserveEvent inserts the event id with DO NOTHING semantics; zero affected
// rows means an earlier delivery already reserved it.
func (r *Repository) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	row := processedEventModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: payloadHash,
		ProcessedAt: time.Now().UTC(),
		ExpiresAt:   expiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return false, r.logError("notification_repo_reserve_event_failed", create.Error,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return create.RowsAffected == 0, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "engagement/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("notification repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type notificationModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RecipientID string    `gorm:"column:recipient_id"`
	Message     string    `gorm:"column:message"`
	Read        bool      `gorm:"column:read"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) notificationModel {
	return notificationModel{
		ID:          strings.TrimSpace(notification.NotificationID),
		RecipientID: strings.TrimSpace(notification.RecipientID),
		Message:     notification.Message,
		Read:        notification.Read,
		CreatedAt:   notification.CreatedAt.UTC(),
	}
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		NotificationID: m.ID,
		RecipientID:    m.RecipientID,
		Message:        m.Message,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type userModel struct {
	ID       string `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:username"`
	Role     string `gorm:"column:role"`
}

func (userModel) TableName() string {
	return "users"
}

type processedEventModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (processedEventModel) TableName() string {
	return "notification_processed_events"
}
