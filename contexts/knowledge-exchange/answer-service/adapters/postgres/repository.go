package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/contexts/knowledge-exchange/answer-service/ports"
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

func (r *Repository) SaveAnswer(ctx context.Context, answer entities.Answer) error {
	row, err := answerModelFromEntity(answer)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"body":       row.Body,
			"upvoters":   row.Upvoters,
			"downvoters": row.Downvoters,
			"accepted":   row.Accepted,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("answer_repo_save_failed", create.Error,
			"answer_id", strings.TrimSpace(answer.AnswerID),
		)
	}
	return nil
}

func (r *Repository) GetAnswer(ctx context.Context, answerID string) (entities.Answer, error) {
	var row answerModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(answerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Answer{}, domainerrors.ErrAnswerNotFound
		}
		return entities.Answer{}, r.logError("answer_repo_get_failed", err,
			"answer_id", strings.TrimSpace(answerID),
		)
	}
	return row.toEntity()
}

func (r *Repository) ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error) {
	var rows []answerModel
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("answer_repo_list_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	items := make([]entities.Answer, 0, len(rows))
	for _, row := range rows {
		entity, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	return items, nil
}

// UpdateAnswerAtomic locks the answer row, applies the mutator, and writes
// the result inside one transaction. The row lock is the per-entity
// exclusive-update primitive the vote toggle relies on.
func (r *Repository) UpdateAnswerAtomic(
	ctx context.Context,
	answerID string,
	mutate func(answer *entities.Answer) error,
) (entities.Answer, error) {
	answerID = strings.TrimSpace(answerID)

	var updated entities.Answer
	var lastErr error
	for attempt := 0; attempt < atomicUpdateAttempts; attempt++ {
		lastErr = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row answerModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", answerID).
				First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrAnswerNotFound
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
			next, err := answerModelFromEntity(entity)
			if err != nil {
				return err
			}
			if err := tx.Model(&answerModel{}).
				Where("id = ?", answerID).
				Updates(map[string]any{
					"body":       next.Body,
					"upvoters":   next.Upvoters,
					"downvoters": next.Downvoters,
					"accepted":   next.Accepted,
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
	if errors.Is(lastErr, domainerrors.ErrAnswerNotFound) {
		return entities.Answer{}, lastErr
	}
	return entities.Answer{}, r.logError("answer_repo_atomic_update_failed", lastErr,
		"answer_id", answerID,
	)
}

// SetAccepted clears every accepted mark under the question and sets the
// target inside one transaction. Readers outside the transaction never
// observe two accepted answers for the same question, and the target's
// membership in the question is re-verified under the row lock.
func (r *Repository) SetAccepted(ctx context.Context, questionID string, answerID string) (entities.Answer, error) {
	questionID = strings.TrimSpace(questionID)
	answerID = strings.TrimSpace(answerID)

	var accepted entities.Answer
	var lastErr error
	for attempt := 0; attempt < atomicUpdateAttempts; attempt++ {
		lastErr = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row answerModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ? AND question_id = ?", answerID, questionID).
				First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrAnswerNotFound
				}
				return err
			}
			if err := tx.Model(&answerModel{}).
				Where("question_id = ? AND accepted = ?", questionID, true).
				Update("accepted", false).Error; err != nil {
				return err
			}
			if err := tx.Model(&answerModel{}).
				Where("id = ?", answerID).
				Update("accepted", true).Error; err != nil {
				return err
			}
			row.Accepted = true
			entity, err := row.toEntity()
			if err != nil {
				return err
			}
			accepted = entity
			return nil
		})
		if lastErr == nil {
			return accepted, nil
		}
		if !isRetryableTxError(lastErr) {
			break
		}
	}
	if errors.Is(lastErr, domainerrors.ErrAnswerNotFound) {
		return entities.Answer{}, lastErr
	}
	return entities.Answer{}, r.logError("answer_repo_set_accepted_failed", lastErr,
		"question_id", questionID,
		"answer_id", answerID,
	)
}

func (r *Repository) PurgeByQuestion(ctx context.Context, questionID string) (int, error) {
	result := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Delete(&answerModel{})
	if result.Error != nil {
		return 0, r.logError("answer_repo_purge_failed", result.Error,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (ports.QuestionRef, error) {
	var row questionRefModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.QuestionRef{}, domainerrors.ErrQuestionNotFound
		}
		return ports.QuestionRef{}, r.logError("answer_repo_get_question_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return ports.QuestionRef{QuestionID: row.ID, OwnerID: row.OwnerID, Title: row.Title}, nil
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
		return ports.UserRef{}, r.logError("answer_repo_get_user_failed", err,
			"user_id", strings.TrimSpace(userID),
		)
	}
	return ports.UserRef{UserID: row.ID, Username: row.Username, Role: row.Role}, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("answer_repo_append_outbox_marshal_failed", err,
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
		return r.logError("answer_repo_append_outbox_failed", create.Error,
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
		return nil, r.logError("answer_repo_list_pending_outbox_failed", err, "limit", limit)
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
		return r.logError("answer_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
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
		return false, r.logError("answer_repo_reserve_event_failed", create.Error,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return create.RowsAffected == 0, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "knowledge-exchange/answer-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("answer repository operation failed", fields...)
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

type answerModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	QuestionID string    `gorm:"column:question_id"`
	OwnerID    string    `gorm:"column:owner_id"`
	Body       string    `gorm:"column:body"`
	Upvoters   []byte    `gorm:"column:upvoters"`
	Downvoters []byte    `gorm:"column:downvoters"`
	Accepted   bool      `gorm:"column:accepted"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (answerModel) TableName() string {
	return "answers"
}

func answerModelFromEntity(answer entities.Answer) (answerModel, error) {
	upvoters, err := json.Marshal(answer.Votes.Upvoters)
	if err != nil {
		return answerModel{}, err
	}
	downvoters, err := json.Marshal(answer.Votes.Downvoters)
	if err != nil {
		return answerModel{}, err
	}
	return answerModel{
		ID:         strings.TrimSpace(answer.AnswerID),
		QuestionID: strings.TrimSpace(answer.QuestionID),
		OwnerID:    strings.TrimSpace(answer.OwnerID),
		Body:       answer.Body,
		Upvoters:   upvoters,
		Downvoters: downvoters,
		Accepted:   answer.Accepted,
		CreatedAt:  answer.CreatedAt.UTC(),
		UpdatedAt:  answer.UpdatedAt.UTC(),
	}, nil
}

func (m answerModel) toEntity() (entities.Answer, error) {
	votes := votable.Votable{}
	if len(m.Upvoters) > 0 {
		if err := json.Unmarshal(m.Upvoters, &votes.Upvoters); err != nil {
			return entities.Answer{}, err
		}
	}
	if len(m.Downvoters) > 0 {
		if err := json.Unmarshal(m.Downvoters, &votes.Downvoters); err != nil {
			return entities.Answer{}, err
		}
	}
	return entities.Answer{
		AnswerID:   m.ID,
		QuestionID: m.QuestionID,
		OwnerID:    m.OwnerID,
		Body:       m.Body,
		Votes:      votes,
		Accepted:   m.Accepted,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}, nil
}

type questionRefModel struct {
	ID      string `gorm:"column:id;primaryKey"`
	OwnerID string `gorm:"column:owner_id"`
	Title   string `gorm:"column:title"`
}

func (questionRefModel) TableName() string {
	return "questions"
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
	return "answer_outbox"
}

type processedEventModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (processedEventModel) TableName() string {
	return "answer_processed_events"
}
