// Package realtime owns live event delivery: a concurrency-safe registry
// mapping user identifiers to their open connections, independent of the
// transport that produced those connections.
package realtime

import (
	"log/slog"
	"sync"
)

// Connection is the minimal handle the registry needs from a transport.
// Implementations must tolerate Send/Close after the peer is gone by
// returning an error rather than blocking forever.
type Connection interface {
	Send(event Event) error
	Close() error
}

// channelSet holds one user's open connections. Each user key carries its own
// lock so unrelated users never contend on registration or publish.
type channelSet struct {
	mu    sync.Mutex
	conns map[Connection]struct{}
}

// Registry is the live channel registry. A user may hold zero, one, or many
// simultaneous registrations; registrations are ephemeral and dropped on
// disconnect.
type Registry struct {
	mu     sync.RWMutex
	users  map[string]*channelSet
	owners map[Connection]string
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		users:  make(map[string]*channelSet),
		owners: make(map[Connection]string),
		logger: logger,
	}
}

// Register adds conn to the set keyed by userID. Registering the same
// connection twice is a no-op.
func (r *Registry) Register(userID string, conn Connection) {
	if userID == "" || conn == nil {
		return
	}

	r.mu.Lock()
	set, ok := r.users[userID]
	if !ok {
		set = &channelSet{conns: make(map[Connection]struct{})}
		r.users[userID] = set
	}
	r.owners[conn] = userID
	r.mu.Unlock()

	set.mu.Lock()
	set.conns[conn] = struct{}{}
	set.mu.Unlock()

	r.logger.Info("live channel registered",
		"event", "realtime_channel_registered",
		"module", "internal/platform/realtime",
		"layer", "platform",
		"user_id", userID,
	)
}

// Unregister removes conn from whatever set contains it; a no-op when the
// connection was never registered or is already gone.
func (r *Registry) Unregister(conn Connection) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	userID, ok := r.owners[conn]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.owners, conn)
	set := r.users[userID]
	r.mu.Unlock()

	if set == nil {
		return
	}
	set.mu.Lock()
	delete(set.conns, conn)
	empty := len(set.conns) == 0
	set.mu.Unlock()

	if empty {
		r.mu.Lock()
		// Re-check under the registry lock; a concurrent Register may have
		// repopulated the set in the meantime.
		if current, ok := r.users[userID]; ok && current == set {
			current.mu.Lock()
			if len(current.conns) == 0 {
				delete(r.users, userID)
			}
			current.mu.Unlock()
		}
		r.mu.Unlock()
	}

	r.logger.Info("live channel unregistered",
		"event", "realtime_channel_unregistered",
		"module", "internal/platform/realtime",
		"layer", "platform",
		"user_id", userID,
	)
}

// Publish delivers event to every currently-registered connection for userID.
// Delivery is best-effort: a connection that errors is treated as an implicit
// disconnect and removed, and fan-out to the remaining connections continues.
// Publishing to a user with zero registrations is a silent no-op.
func (r *Registry) Publish(userID string, event Event) {
	r.mu.RLock()
	set := r.users[userID]
	r.mu.RUnlock()
	if set == nil {
		return
	}

	// Sends happen under the per-user lock so a single user's connections
	// observe events in publish order.
	var stale []Connection
	set.mu.Lock()
	for conn := range set.conns {
		if err := conn.Send(event); err != nil {
			stale = append(stale, conn)
			r.logger.Warn("live delivery failed; dropping connection",
				"event", "realtime_delivery_failed",
				"module", "internal/platform/realtime",
				"layer", "platform",
				"user_id", userID,
				"kind", event.Kind,
				"error", err.Error(),
			)
		}
	}
	set.mu.Unlock()

	for _, conn := range stale {
		r.Unregister(conn)
		_ = conn.Close()
	}
}

// Broadcast delivers event to every live connection of every user. Used for
// broadcast-style events that have no per-recipient targeting.
func (r *Registry) Broadcast(event Event) {
	r.mu.RLock()
	userIDs := make([]string, 0, len(r.users))
	for userID := range r.users {
		userIDs = append(userIDs, userID)
	}
	r.mu.RUnlock()

	for _, userID := range userIDs {
		r.Publish(userID, event)
	}
}

// Connections reports how many live connections userID currently holds.
func (r *Registry) Connections(userID string) int {
	r.mu.RLock()
	set := r.users[userID]
	r.mu.RUnlock()
	if set == nil {
		return 0
	}
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.conns)
}
