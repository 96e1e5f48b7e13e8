package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"stackit/contexts/knowledge-exchange/answer-service/domain/entities"
	domainerrors "stackit/contexts/knowledge-exchange/answer-service/domain/errors"
	"stackit/contexts/knowledge-exchange/answer-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store is the in-memory adapter backing tests and local wiring. Vote
// mutators take a per-answer lock; acceptance takes a per-question lock so
// two competing acceptances on the same question serialize and the final
// state carries exactly one accepted answer.
type Store struct {
	mu sync.RWMutex

	answers         map[string]entities.Answer
	answerLocks     map[string]*sync.Mutex
	acceptanceLocks map[string]*sync.Mutex
	questions       map[string]ports.QuestionRef
	users           map[string]ports.UserRef
	outbox          map[string]outboxRecord
	dedup           map[string]dedupRecord
}

func NewStore(seed []entities.Answer) *Store {
	answers := make(map[string]entities.Answer, len(seed))
	for _, answer := range seed {
		answers[answer.AnswerID] = answer
	}
	return &Store{
		answers:         answers,
		answerLocks:     make(map[string]*sync.Mutex),
		acceptanceLocks: make(map[string]*sync.Mutex),
		questions:       make(map[string]ports.QuestionRef),
		users:           make(map[string]ports.UserRef),
		outbox:          make(map[string]outboxRecord),
		dedup:           make(map[string]dedupRecord),
	}
}

// SetQuestion seeds the cross-context question projection.
func (s *Store) SetQuestion(question ports.QuestionRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[strings.TrimSpace(question.QuestionID)] = ports.QuestionRef{
		QuestionID: strings.TrimSpace(question.QuestionID),
		OwnerID:    strings.TrimSpace(question.OwnerID),
		Title:      strings.TrimSpace(question.Title),
	}
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (ports.QuestionRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return ports.QuestionRef{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
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

func (s *Store) SaveAnswer(_ context.Context, answer entities.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[strings.TrimSpace(answer.AnswerID)] = answer
	return nil
}

func (s *Store) GetAnswer(_ context.Context, answerID string) (entities.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.answers[strings.TrimSpace(answerID)]
	if !ok {
		return entities.Answer{}, domainerrors.ErrAnswerNotFound
	}
	return cloneAnswer(answer), nil
}

func (s *Store) ListAnswersByQuestion(_ context.Context, questionID string) ([]entities.Answer, error) {
	questionID = strings.TrimSpace(questionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Answer, 0)
	for _, answer := range s.answers {
		if answer.QuestionID != questionID {
			continue
		}
		items = append(items, cloneAnswer(answer))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].AnswerID < items[j].AnswerID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateAnswerAtomic(
	_ context.Context,
	answerID string,
	mutate func(answer *entities.Answer) error,
) (entities.Answer, error) {
	answerID = strings.TrimSpace(answerID)

	lock := s.entityLock(s.answerLocks, answerID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	answer, ok := s.answers[answerID]
	s.mu.RUnlock()
	if !ok {
		return entities.Answer{}, domainerrors.ErrAnswerNotFound
	}

	working := cloneAnswer(answer)
	if err := mutate(&working); err != nil {
		return entities.Answer{}, err
	}

	s.mu.Lock()
	s.answers[answerID] = working
	s.mu.Unlock()
	return cloneAnswer(working), nil
}

// SetAccepted clears every accepted mark under the question and sets the
// target, all under the question's acceptance lock. No interleaved reader of
// the final map state can observe two accepted answers for one question.
func (s *Store) SetAccepted(_ context.Context, questionID string, answerID string) (entities.Answer, error) {
	questionID = strings.TrimSpace(questionID)
	answerID = strings.TrimSpace(answerID)

	lock := s.entityLock(s.acceptanceLocks, questionID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.answers[answerID]
	if !ok || target.QuestionID != questionID {
		return entities.Answer{}, domainerrors.ErrAnswerNotFound
	}

	for id, answer := range s.answers {
		if answer.QuestionID != questionID || !answer.Accepted {
			continue
		}
		answer.Accepted = false
		s.answers[id] = answer
	}
	target.Accepted = true
	s.answers[answerID] = target
	return cloneAnswer(target), nil
}

func (s *Store) PurgeByQuestion(_ context.Context, questionID string) (int, error) {
	questionID = strings.TrimSpace(questionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, answer := range s.answers {
		if answer.QuestionID != questionID {
			continue
		}
		delete(s.answers, id)
		purged++
	}
	return purged, nil
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

// ReserveEvent implements ports.EventDedupStore. The first reservation for an
// event id wins; replays report already-processed until the TTL lapses.
func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	eventID = strings.TrimSpace(eventID)
	existing, ok := s.dedup[eventID]
	if ok && existing.expiresAt.After(time.Now().UTC()) {
		return true, nil
	}
	s.dedup[eventID] = dedupRecord{payloadHash: payloadHash, expiresAt: expiresAt}
	return false, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) entityLock(locks map[string]*sync.Mutex, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := locks[key]
	if !ok {
		lock = &sync.Mutex{}
		locks[key] = lock
	}
	return lock
}

func cloneAnswer(answer entities.Answer) entities.Answer {
	clone := answer
	clone.Votes = answer.Votes.Clone()
	return clone
}
