package store

import (
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber channel capacity. Updates to a
// full buffer are dropped for that subscriber rather than blocking the
// update path.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore provides thread-safe storage of the single printer snapshot
// with a publish-subscribe mechanism for real-time updates. The snapshot is
// replaced atomically; readers never observe a partially populated value.
type MemoryStore struct {
	mu     sync.RWMutex
	snap   Snapshot
	polled bool

	subMu       sync.RWMutex
	subscribers map[chan Snapshot]struct{}
}

// NewMemoryStore creates a new in-memory [Store] implementation.
//
// The store starts with a placeholder snapshot: unknown status, unknown
// connectivity. No cleanup is required when done.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snap: Snapshot{
			Status:       "unknown",
			Connectivity: ConnectivityUnknown,
		},
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Set replaces the snapshot wholesale and notifies all subscribers.
//
// The connectivity fields are normalized: Connectivity is set to healthy
// and Error is cleared regardless of what the caller passed.
func (m *MemoryStore) Set(snap Snapshot) {
	snap.Connectivity = ConnectivityHealthy
	snap.Error = nil

	m.mu.Lock()
	m.snap = snap
	m.polled = true
	m.mu.Unlock()

	m.notifySubscribers(snap)
}

// MarkDegraded records a failed poll while preserving the last known data.
func (m *MemoryStore) MarkDegraded(at time.Time, message string) {
	m.mu.Lock()
	m.snap.Connectivity = ConnectivityDegraded
	m.snap.CheckedAt = at
	m.snap.Error = &message
	snap := m.snap
	m.mu.Unlock()

	m.notifySubscribers(snap)
}

// Get returns the current snapshot and whether a poll has succeeded yet.
func (m *MemoryStore) Get() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, m.polled
}

// Subscribe creates a new subscription and returns a channel for receiving
// updates.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource
// leaks.
func (m *MemoryStore) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the snapshot to all active subscribers without
// blocking: a slow subscriber's update is dropped.
func (m *MemoryStore) notifySubscribers(snap Snapshot) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
			// subscriber is slow, drop the message
		}
	}
}
