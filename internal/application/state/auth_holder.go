// internal/application/state/auth_holder.go
package state

import (
	"log"
	"sync"

	authdom "storefront/internal/domain/auth"
	"storefront/internal/domain/session"
)

// AuthHolder holds the current auth record and mirrors every change into the
// session store under session.AuthKey (write-through, nothing to invalidate).
//
// Listeners run synchronously after each change, in registration order, and
// must not call Set/Update/Logout themselves.
type AuthHolder struct {
	store session.Store

	opMu sync.Mutex // serializes change+notify

	mu  sync.RWMutex
	cur authdom.Record

	subs subscribers[authdom.Record]
}

// NewAuthHolder rehydrates from the store once. A missing or corrupt record
// starts logged out.
func NewAuthHolder(store session.Store) *AuthHolder {
	h := &AuthHolder{store: store, cur: authdom.Empty()}

	raw, ok := store.Get(session.AuthKey)
	if !ok {
		return h
	}
	rec, ok := authdom.Decode(raw)
	if !ok {
		log.Printf("[auth_holder] WARN: corrupt %q record ignored (logged out)", session.AuthKey)
		return h
	}
	h.cur = rec
	return h
}

// Get returns a copy of the current record.
func (h *AuthHolder) Get() authdom.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur.Clone()
}

// Email is a shortcut for Get().Email().
func (h *AuthHolder) Email() string {
	return h.Get().Email()
}

// Set replaces the record, persists it and notifies listeners.
func (h *AuthHolder) Set(rec authdom.Record) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	next := rec.Clone()

	h.mu.Lock()
	h.cur = next
	h.mu.Unlock()

	h.store.Set(session.AuthKey, next.Encode())
	h.subs.emit(next.Clone())
}

// Update applies fn to the current record (e.g. a profile refresh keeping the token).
func (h *AuthHolder) Update(fn func(authdom.Record) authdom.Record) {
	if fn == nil {
		return
	}
	h.Set(fn(h.Get()))
}

// Logout resets to the unauthenticated record.
func (h *AuthHolder) Logout() {
	h.Set(authdom.Empty())
}

// Subscribe registers fn for every subsequent change; call the returned func to stop.
func (h *AuthHolder) Subscribe(fn func(authdom.Record)) (unsubscribe func()) {
	return h.subs.add(fn)
}
