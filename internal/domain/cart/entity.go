// internal/domain/cart/entity.go
package cart

import (
	"encoding/json"
	"strings"
)

// KeyPrefix prefixes the session-store key of every per-user cart.
const KeyPrefix = "cart"

// StorageKey returns the session-store key of the cart owned by email.
// Guests (empty email) have no key.
func StorageKey(email string) (string, bool) {
	e := strings.TrimSpace(email)
	if e == "" {
		return "", false
	}
	return KeyPrefix + e, true
}

// Record is the ordered list of product ids in a cart.
// Quantity is expressed by repetition; ids are kept verbatim (no dedupe, no
// catalog validation).
type Record []string

// Clone returns an independent copy (never nil).
func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Append returns a new record with id appended.
func (r Record) Append(id string) Record {
	out := make(Record, 0, len(r)+1)
	out = append(out, r...)
	return append(out, id)
}

// RemoveFirst returns a new record without the first occurrence of id and
// whether anything was removed.
func (r Record) RemoveFirst(id string) (Record, bool) {
	for i, v := range r {
		if v == id {
			out := make(Record, 0, len(r)-1)
			out = append(out, r[:i]...)
			return append(out, r[i+1:]...), true
		}
	}
	return r.Clone(), false
}

// Encode serializes the record as a JSON array of strings.
func (r Record) Encode() string {
	if r == nil {
		return "[]"
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Decode parses a persisted cart. Anything that is not a JSON array of
// strings is reported as !ok.
func Decode(raw string) (Record, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	if ids == nil {
		// "null" is not a sequence
		return nil, false
	}
	return Record(ids), true
}
