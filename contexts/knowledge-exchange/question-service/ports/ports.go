package ports

import (
	"context"
	"time"

	contractsv1 "stackit/contracts/gen/events/v1"
	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
)

// QuestionRepository persists questions. UpdateQuestionAtomic is the
// exclusive-update primitive: the mutator runs with the document locked so
// concurrent vote toggles and view increments serialize per question.
type QuestionRepository interface {
	SaveQuestion(ctx context.Context, question entities.Question) error
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	ListQuestions(ctx context.Context) ([]entities.Question, error)
	UpdateQuestionAtomic(ctx context.Context, questionID string, mutate func(question *entities.Question) error) (entities.Question, error)
	DeleteQuestion(ctx context.Context, questionID string) error
}

// UserRef is the read-only projection of the external user record.
type UserRef struct {
	UserID   string
	Username string
	Role     string
}

// UserDirectory reads user records owned by the external identity subsystem.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (UserRef, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter appends an event in the same store as the state change.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
