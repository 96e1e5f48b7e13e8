package ports

import (
	"context"
	"time"

	contractsv1 "stackit/contracts/gen/events/v1"
	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
)

// AnswerRepository persists answers. UpdateAnswerAtomic serializes mutators
// per answer (vote toggles); SetAccepted is the acceptance primitive: one
// atomic update scoped to the question that clears every sibling and sets
// the target, so no reader ever observes two accepted answers.
type AnswerRepository interface {
	SaveAnswer(ctx context.Context, answer entities.Answer) error
	GetAnswer(ctx context.Context, answerID string) (entities.Answer, error)
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.Answer, error)
	UpdateAnswerAtomic(ctx context.Context, answerID string, mutate func(answer *entities.Answer) error) (entities.Answer, error)
	SetAccepted(ctx context.Context, questionID string, answerID string) (entities.Answer, error)
	PurgeByQuestion(ctx context.Context, questionID string) (int, error)
}

// QuestionRef is the cross-context projection of a question.
type QuestionRef struct {
	QuestionID string
	OwnerID    string
	Title      string
}

// QuestionDirectory resolves questions owned by the question service.
type QuestionDirectory interface {
	GetQuestion(ctx context.Context, questionID string) (QuestionRef, error)
}

// UserRef is the read-only projection of the external user record.
type UserRef struct {
	UserID   string
	Username string
	Role     string
}

type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (UserRef, error)
}

// AnswerSubmittedNote instructs the event dispatcher that a question owner
// should hear about a new answer.
type AnswerSubmittedNote struct {
	QuestionID      string
	QuestionOwnerID string
	QuestionTitle   string
	AnswererID      string
	AnswererName    string
}

// AnswerAcceptedNote instructs the event dispatcher that an answer owner
// should hear their answer was accepted.
type AnswerAcceptedNote struct {
	QuestionID    string
	QuestionTitle string
	AnswerID      string
	AnswerOwnerID string
	AccepterID    string
	AccepterName  string
}

// Notifier is the boundary to the event dispatcher. Implementations decide
// message wording, persistence, and live push; this module only reports what
// happened. Self-notification suppression stays here via the IDs on the note.
type Notifier interface {
	AnswerSubmitted(ctx context.Context, note AnswerSubmittedNote) error
	AnswerAccepted(ctx context.Context, note AnswerAcceptedNote) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventDedupStore provides idempotent processing guarantees for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
