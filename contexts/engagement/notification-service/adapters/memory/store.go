package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stackit/contexts/engagement/notification-service/domain/entities"
	domainerrors "stackit/contexts/engagement/notification-service/domain/errors"
	"stackit/contexts/engagement/notification-service/ports"

	"github.com/google/uuid"
)

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store is the in-memory adapter backing tests and local wiring.
type Store struct {
	mu sync.RWMutex

	notifications map[string]entities.Notification
	users         map[string]ports.UserRef
	dedup         map[string]dedupRecord
}

func NewStore() *Store {
	return &Store{
		notifications: make(map[string]entities.Notification),
		users:         make(map[string]ports.UserRef),
		dedup:         make(map[string]dedupRecord),
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

func (s *Store) ListUsers(_ context.Context) ([]ports.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.UserRef, 0, len(s.users))
	for _, user := range s.users {
		items = append(items, user)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UserID < items[j].UserID
	})
	return items, nil
}

func (s *Store) SaveNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[strings.TrimSpace(notification.NotificationID)] = notification
	return nil
}

func (s *Store) GetNotification(_ context.Context, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) ListNotificationsFor(_ context.Context, recipientID string) ([]entities.Notification, error) {
	recipientID = strings.TrimSpace(recipientID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.RecipientID != recipientID {
			continue
		}
		items = append(items, notification)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].NotificationID > items[j].NotificationID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, notificationID string) (entities.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	notification.Read = true
	s.notifications[strings.TrimSpace(notificationID)] = notification
	return notification, nil
}

// DeleteUser removes the user projection, mirroring the admin ban.
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

// CountNotifications reports the store size for operational reports.
func (s *Store) CountNotifications(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications), nil
}

// CountUsers reports the user projection size for operational reports.
func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
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
