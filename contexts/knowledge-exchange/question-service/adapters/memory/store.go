package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"stackit/contexts/knowledge-exchange/question-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/question-service/domain/errors"
	"stackit/contexts/knowledge-exchange/question-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter backing tests and local wiring. Atomic
// updates take a per-question lock so concurrent mutators on the same
// question serialize while unrelated questions never contend.
type Store struct {
	mu sync.RWMutex

	questions map[string]entities.Question
	locks     map[string]*sync.Mutex
	users     map[string]ports.UserRef
	outbox    map[string]outboxRecord
}

func NewStore(seed []entities.Question) *Store {
	questions := make(map[string]entities.Question, len(seed))
	for _, question := range seed {
		questions[question.QuestionID] = question
	}
	return &Store{
		questions: questions,
		locks:     make(map[string]*sync.Mutex),
		users:     make(map[string]ports.UserRef),
		outbox:    make(map[string]outboxRecord),
	}
}

// SetUser seeds the external user projection.
func (s *Store) SetUser(user ports.UserRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.TrimSpace(user.UserID)] = ports.UserRef{
		UserID:   strings.TrimSpace(user.UserID),
		Username: strings.TrimSpace(user.Username),
		Role:     strings.TrimSpace(user.Role),
	}
}

func (s *Store) GetUser(_ context.Context, userID string) (ports.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return ports.UserRef{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) SaveQuestion(_ context.Context, question entities.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[strings.TrimSpace(question.QuestionID)] = question
	return nil
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return cloneQuestion(question), nil
}

func (s *Store) ListQuestions(_ context.Context) ([]entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Question, 0, len(s.questions))
	for _, question := range s.questions {
		items = append(items, cloneQuestion(question))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].QuestionID > items[j].QuestionID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateQuestionAtomic(
	_ context.Context,
	questionID string,
	mutate func(question *entities.Question) error,
) (entities.Question, error) {
	questionID = strings.TrimSpace(questionID)

	lock := s.entityLock(questionID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	question, ok := s.questions[questionID]
	s.mu.RUnlock()
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}

	working := cloneQuestion(question)
	if err := mutate(&working); err != nil {
		return entities.Question{}, err
	}

	s.mu.Lock()
	s.questions[questionID] = working
	s.mu.Unlock()
	return cloneQuestion(working), nil
}

func (s *Store) DeleteQuestion(_ context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	questionID = strings.TrimSpace(questionID)
	if _, ok := s.questions[questionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	delete(s.questions, questionID)
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      raw,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		items = append(items, record.message)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].OutboxID < items[j].OutboxID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	record.published = true
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) entityLock(questionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[questionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[questionID] = lock
	}
	return lock
}

func cloneQuestion(question entities.Question) entities.Question {
	clone := question
	clone.Tags = append([]string(nil), question.Tags...)
	clone.Votes = question.Votes.Clone()
	return clone
}
