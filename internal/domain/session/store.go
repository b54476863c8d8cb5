// internal/domain/session/store.go
package session

// AuthKey is the fixed key holding the serialized auth record.
const AuthKey = "auth"

// Store is the device-local key/value store the client keeps its session in.
//
// Contract:
//   - synchronous; a Set is visible to the next Get on the same Store
//   - survives process restarts on the same device, never shared across devices
//   - last write wins, no transactions
//
// Implementations never fail loudly: a value that cannot be persisted stays
// visible in memory and the failure is logged.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}
