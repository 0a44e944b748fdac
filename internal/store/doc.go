// Package store holds the last known printer snapshot and distributes
// updates to subscribers.
//
// The store implements last-known-value semantics: a successful poll
// replaces the snapshot wholesale, a failed poll only degrades the
// connectivity fields while the previous data stays visible. Consumers
// (the REST API and the streaming endpoints) read the snapshot or
// subscribe for pushes.
package store
