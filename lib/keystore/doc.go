// Package keystore provides the runtime key-value persistence layer read by
// the application at startup.
//
// A Store maps string keys to scalar values (string or bool). Absence is a
// distinct state: Get reports it through its second return value and never
// as an empty string.
//
// # Change Notification
//
// Every successful Set or Remove delivers an Event to all current observers
// before the call returns, on the goroutine that performed the write.
// Redundant writes are not suppressed. Observers may write to the store
// again from inside the callback; the store releases its internal lock
// before delivery so such cascades cannot deadlock.
//
// # Implementations
//
//   - MemoryStore keeps values in memory only and is intended for tests.
//   - FileStore persists every write to a YAML file so values survive
//     process restarts. Files are written with 0600 permissions.
//
// The store itself does not serialize independent writers. Callers with more
// than one mutating goroutine must add their own mutual exclusion around
// writes (see app.Controller.Apply).
package keystore
