package store

import "time"

// Connectivity reflects the outcome of the most recent poll.
type Connectivity string

const (
	// ConnectivityUnknown means no poll has completed yet.
	ConnectivityUnknown Connectivity = "unknown"

	// ConnectivityHealthy means the last poll succeeded.
	ConnectivityHealthy Connectivity = "healthy"

	// ConnectivityDegraded means the last poll failed; the snapshot data is
	// the last known good value.
	ConnectivityDegraded Connectivity = "degraded"
)

// Snapshot is the storage representation of the printer state, optimized
// for JSON serialization (used by the REST API, SSE, and WebSocket streams).
// It is decoupled from the client's wire types to allow independent
// evolution.
type Snapshot struct {
	// Status is the printer status: "ready", "printing", "error", or
	// "unknown".
	Status string `json:"status"`

	// Model is the printer model reported by the service.
	Model string `json:"model"`

	// Connected reports whether the printer is attached to the service.
	Connected bool `json:"connected"`

	// LastPrint is the timestamp string of the last print job, if any.
	LastPrint string `json:"last_print,omitempty"`

	// Connectivity reflects the outcome of the most recent poll.
	Connectivity Connectivity `json:"connectivity"`

	// CheckedAt is the timestamp of the most recent poll attempt.
	CheckedAt time.Time `json:"checked_at"`

	// Error contains the failure message of the most recent poll.
	// nil when the last poll succeeded.
	Error *string `json:"error"`
}

// Store holds the last known printer snapshot and fans out updates.
//
// Implementations must be safe for concurrent access. The pub/sub mechanism
// pushes every replacement and degradation to connected consumers.
type Store interface {
	// Set replaces the snapshot wholesale with a fresh, healthy value and
	// notifies all subscribers.
	Set(snap Snapshot)

	// MarkDegraded records a failed poll. Previously stored data remains
	// visible (last-known-value); only the connectivity fields change.
	// Subscribers are notified.
	MarkDegraded(at time.Time, message string)

	// Get returns the current snapshot. ok is false if no poll has
	// completed yet; the returned value is then a fully-formed placeholder
	// with unknown status.
	Get() (snap Snapshot, ok bool)

	// Subscribe returns a channel that receives snapshot updates.
	// The channel is buffered; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Snapshot

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Snapshot)
}
