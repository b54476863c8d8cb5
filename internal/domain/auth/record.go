// internal/domain/auth/record.go
package auth

import (
	"encoding/json"
	"strings"
)

// Role values as issued by the API (0 = shopper, 1 = admin).
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// UserProfile is the identity the API returns on login/registration.
type UserProfile struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    int    `json:"role"`
}

// Record is the authenticated identity of the client, or the unauthenticated
// state (User == nil, Token == "").
type Record struct {
	User  *UserProfile `json:"user"`
	Token string       `json:"token"`
}

// Empty returns the logged-out record.
func Empty() Record {
	return Record{User: nil, Token: ""}
}

// Email returns the trimmed email of the current user, "" for guests.
func (r Record) Email() string {
	if r.User == nil {
		return ""
	}
	return strings.TrimSpace(r.User.Email)
}

// Authenticated reports whether a token is held.
func (r Record) Authenticated() bool {
	return strings.TrimSpace(r.Token) != ""
}

// IsAdmin reports whether the current user has the admin role.
func (r Record) IsAdmin() bool {
	return r.User != nil && r.User.Role == RoleAdmin
}

// Clone returns a deep copy (the profile pointer is not shared).
func (r Record) Clone() Record {
	out := Record{Token: r.Token}
	if r.User != nil {
		u := *r.User
		out.User = &u
	}
	return out
}

// Encode serializes the record the way it is persisted under session.AuthKey.
func (r Record) Encode() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"user":null,"token":""}`
	}
	return string(b)
}

// Decode parses a persisted record. Anything unparseable is reported as !ok
// and callers fall back to Empty().
func Decode(raw string) (Record, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Empty(), false
	}
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Empty(), false
	}
	return r, true
}
