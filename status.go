package labelbridge

import "time"

// Status represents the printer state reported by the service.
//
// Status is a string type that can hold one of four predefined values:
// [StatusReady], [StatusPrinting], [StatusError], or [StatusUnknown].
// Using a string type allows for easy JSON serialization and human-readable
// logging while maintaining type safety through the defined constants.
type Status string

const (
	// StatusReady indicates the printer is idle and able to print.
	StatusReady Status = "ready"

	// StatusPrinting indicates a print job is in progress.
	StatusPrinting Status = "printing"

	// StatusError indicates the printer reported a fault.
	StatusError Status = "error"

	// StatusUnknown indicates the status could not be determined, either
	// because no poll has succeeded yet or the service reported an
	// unrecognized value.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
// This implements the fmt.Stringer interface.
func (s Status) String() string {
	return string(s)
}

// Connectivity reflects the outcome of the most recent status poll.
type Connectivity string

const (
	// ConnectivityUnknown means no poll has completed yet.
	ConnectivityUnknown Connectivity = "unknown"

	// ConnectivityHealthy means the last poll succeeded.
	ConnectivityHealthy Connectivity = "healthy"

	// ConnectivityDegraded means the last poll failed. Snapshot data is
	// the last known good value.
	ConnectivityDegraded Connectivity = "degraded"
)

// Snapshot is the public representation of the printer state held by the
// bridge.
//
// Snapshot is immutable after creation. It is replaced wholesale on each
// successful poll; on a failed poll only the connectivity fields change and
// the data fields keep their last known values.
type Snapshot struct {
	// Status is the printer status.
	Status Status

	// Model is the printer model reported by the service.
	Model string

	// Connected reports whether the printer is attached to the service.
	Connected bool

	// LastPrint is the timestamp string of the last print job, if any.
	LastPrint string

	// Connectivity reflects the outcome of the most recent poll.
	Connectivity Connectivity

	// CheckedAt is the timestamp of the most recent poll attempt.
	CheckedAt time.Time

	// Error is the failure message of the most recent poll, empty when the
	// last poll succeeded.
	Error string
}
