package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "stackit/contexts/internal-ops/admin-service/domain/errors"
	"stackit/contexts/internal-ops/admin-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter backing tests and local wiring. Counts and
// the user set are seeded by the caller; the audit log grows append-only.
type Store struct {
	mu sync.Mutex

	logs          []ports.AuditLog
	users         map[string]struct{}
	questions     int
	answers       int
	notifications int
}

func NewStore() *Store {
	return &Store{
		logs:  make([]ports.AuditLog, 0, 128),
		users: make(map[string]struct{}),
	}
}

// SeedUser registers a user id for counting and ban targets.
func (s *Store) SeedUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.TrimSpace(userID)] = struct{}{}
}

// SeedCounts sets the question, answer, and notification counts reports read.
func (s *Store) SeedCounts(questions, answers, notifications int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions
	s.answers = answers
	s.notifications = notifications
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *Store) CountQuestions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions, nil
}

func (s *Store) CountAnswers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers, nil
}

func (s *Store) CountNotifications(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications, nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID = strings.TrimSpace(userID)
	if _, ok := s.users[userID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *Store) AppendAuditLog(_ context.Context, row ports.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, row)
	return nil
}

func (s *Store) ListRecentAuditLogs(_ context.Context, limit int) ([]ports.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := make([]ports.AuditLog, 0, limit)
	for i := len(s.logs) - 1; i >= 0; i-- {
		out = append(out, s.logs[i])
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
