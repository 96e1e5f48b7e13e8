package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	"stackit/contexts/knowledge-exchange/question-service/ports"
	"stackit/internal/shared/votable"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// Atomic updates retry only on serialization/deadlock failures, where the
	// transaction is known rolled back, so a retry can never double-apply.
	atomicUpdateAttempts = 3
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

func (r *Repository) SaveQuestion(ctx context.Context, question entities.Question) error {
	row, err := questionModelFromEntity(question)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":      row.Title,
			"body":       row.Body,
			"tags":       row.Tags,
			"upvoters":   row.Upvoters,
			"downvoters": row.Downvoters,
			"views":      row.Views,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("question_repo_save_failed", create.Error,
			"question_id", strings.TrimSpace(question.QuestionID),
		)
	}
	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	var row questionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("question_repo_get_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return row.toEntity()
}

func (r *Repository) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	var rows []questionModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("question_repo_list_failed", err)
	}
	items := make([]entities.Question, 0, len(rows))
	for _, row := range rows {
		entity, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	return items, nil
}

// UpdateQuestionAtomic locks the question row, applies the mutator, and
// writes the result inside one transaction. The row lock is the per-entity
// exclusive-update primitive the vote toggle relies on.
func (r *Repository) UpdateQuestionAtomic(
	ctx context.Context,
	questionID string,
	mutate func(question *entities.Question) error,
) (entities.Question, error) {
	questionID = strings.TrimSpace(questionID)

	var updated entities.Question
	var lastErr error
	for attempt := 0; attempt < atomicUpdateAttempts; attempt++ {
		lastErr = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row questionModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", questionID).
				First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrQuestionNotFound
				}
				return err
			}
			entity, err := row.toEntity()
			if err != nil {
				return err
			}
			if err := mutate(&entity); err != nil {
				return err
			}
			next, err := questionModelFromEntity(entity)
			if err != nil {
				return err
			}
			if err := tx.Model(&questionModel{}).
				Where("id = ?", questionID).
				Updates(map[string]any{
					"title":      next.Title,
					"body":       next.Body,
					"tags":       next.Tags,
					"upvoters":   next.Upvoters,
					"downvoters": next.Downvoters,
					"views":      next.Views,
					"updated_at": next.UpdatedAt,
				}).Error; err != nil {
				return err
			}
			updated = entity
			return nil
		})
		if lastErr == nil {
			return updated, nil
		}
		if !isRetryableTxError(lastErr) {
			break
		}
	}
	if errors.Is(lastErr, domainerrors.ErrQuestionNotFound) {
		return entities.Question{}, lastErr
	}
	return entities.Question{}, r.logError("question_repo_atomic_update_failed", lastErr,
		"question_id", questionID,
	)
}

func (r *Repository) DeleteQuestion(ctx context.Context, questionID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		Delete(&questionModel{})
	if result.Error != nil {
		return r.logError("question_repo_delete_failed", result.Error,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrQuestionNotFound
	}
	return nil
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
		return ports.UserRef{}, r.logError("question_repo_get_user_failed", err,
			"user_id", strings.TrimSpace(userID),
		)
	}
	return ports.UserRef{UserID: row.ID, Username: row.Username, Role: row.Role}, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("question_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("question_repo_append_outbox_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("question_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("question_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "knowledge-exchange/question-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("question repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

type questionModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Title      string    `gorm:"column:title"`
	Body       string    `gorm:"column:body"`
	Tags       []byte    `gorm:"column:tags"`
	OwnerID    string    `gorm:"column:owner_id"`
	Upvoters   []byte    `gorm:"column:upvoters"`
	Downvoters []byte    `gorm:"column:downvoters"`
	Views      int       `gorm:"column:views"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (questionModel) TableName() string {
	return "questions"
}

func questionModelFromEntity(question entities.Question) (questionModel, error) {
	tags, err := json.Marshal(question.Tags)
	if err != nil {
		return questionModel{}, err
	}
	upvoters, err := json.Marshal(question.Votes.Upvoters)
	if err != nil {
		return questionModel{}, err
	}
	downvoters, err := json.Marshal(question.Votes.Downvoters)
	if err != nil {
		return questionModel{}, err
	}
	return questionModel{
		ID:         strings.TrimSpace(question.QuestionID),
		Title:      question.Title,
		Body:       question.Body,
		Tags:       tags,
		OwnerID:    strings.TrimSpace(question.OwnerID),
		Upvoters:   upvoters,
		Downvoters: downvoters,
		Views:      question.Views,
		CreatedAt:  question.CreatedAt.UTC(),
		UpdatedAt:  question.UpdatedAt.UTC(),
	}, nil
}

func (m questionModel) toEntity() (entities.Question, error) {
	var tags []string
	if len(m.Tags) > 0 {
		if err := json.Unmarshal(m.Tags, &tags); err != nil {
			return entities.Question{}, err
		}
	}
	votes := votable.Votable{}
	if len(m.Upvoters) > 0 {
		if err := json.Unmarshal(m.Upvoters, &votes.Upvoters); err != nil {
			return entities.Question{}, err
		}
	}
	if len(m.Downvoters) > 0 {
		if err := json.Unmarshal(m.Downvoters, &votes.Downvoters); err != nil {
			return entities.Question{}, err
		}
	}
	return entities.Question{
		QuestionID: m.ID,
		Title:      m.Title,
		Body:       m.Body,
		Tags:       tags,
		OwnerID:    m.OwnerID,
		Votes:      votes,
		Views:      m.Views,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}, nil
}

type userModel struct {
	ID       string `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:username"`
	Role     string `gorm:"column:role"`
}

func (userModel) TableName() string {
	return "users"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "question_outbox"
}
