// Package coordinator drives the periodic status poll.
//
// One coordinator serves one configured printer. It owns the refresh loop,
// translates client errors into connectivity state, and is the only writer
// of the snapshot store.
package coordinator
