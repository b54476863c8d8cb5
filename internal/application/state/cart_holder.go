// internal/application/state/cart_holder.go
package state

import (
	"log"
	"strings"
	"sync"

	authdom "storefront/internal/domain/auth"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/session"
)

// CartSnapshot is what cart listeners receive.
type CartSnapshot struct {
	Email string
	Items cartdom.Record
}

// CartHolder keeps the active identity's cart in memory and in the session
// store under cart<email>.
//
// The cart is re-derived every time the observed email changes (login,
// logout, account switch). Guests get an empty in-memory cart that is never
// persisted; whatever a guest added is discarded on login.
type CartHolder struct {
	store session.Store

	opMu sync.Mutex // serializes change+notify

	mu    sync.RWMutex
	email string
	items cartdom.Record

	subs  subscribers[CartSnapshot]
	unsub func()
}

// NewCartHolder loads the cart of auth's current email and follows it from then on.
func NewCartHolder(store session.Store, auth *AuthHolder) *CartHolder {
	h := &CartHolder{store: store, items: cartdom.Record{}}

	email := ""
	if auth != nil {
		email = auth.Email()
	}
	h.opMu.Lock()
	h.loadLocked(email)
	h.opMu.Unlock()

	if auth != nil {
		h.unsub = auth.Subscribe(func(rec authdom.Record) {
			h.follow(rec.Email())
		})
	}
	return h
}

// Close stops following the auth holder.
func (h *CartHolder) Close() {
	if h.unsub != nil {
		h.unsub()
	}
}

// Items returns a copy of the active cart.
func (h *CartHolder) Items() cartdom.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.items.Clone()
}

// Count is the badge number (ids counted with repetition).
func (h *CartHolder) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

// Email is the identity the in-memory cart belongs to ("" for guests).
func (h *CartHolder) Email() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.email
}

// Add appends id to the active cart.
func (h *CartHolder) Add(id string) {
	h.AddAs(h.Email(), id)
}

// Remove drops the first occurrence of id from the active cart.
func (h *CartHolder) Remove(id string) {
	h.RemoveAs(h.Email(), id)
}

// Set replaces the active cart wholesale.
func (h *CartHolder) Set(items []string) {
	h.mutateFor(h.Email(), func(cartdom.Record) cartdom.Record {
		return cartdom.Record(items).Clone()
	})
}

// AddAs appends id to the cart of email, the identity captured when the user
// acted. If the active identity changed in between, the write still lands in
// email's cart and the visible cart is left alone.
func (h *CartHolder) AddAs(email, id string) {
	h.mutateFor(email, func(r cartdom.Record) cartdom.Record {
		return r.Append(id)
	})
}

// RemoveAs is the email-snapshot variant of Remove.
func (h *CartHolder) RemoveAs(email, id string) {
	h.mutateFor(email, func(r cartdom.Record) cartdom.Record {
		out, _ := r.RemoveFirst(id)
		return out
	})
}

// ClearFor deletes the persisted cart of email (the key is removed, not
// overwritten) and empties memory if email is still the active identity.
func (h *CartHolder) ClearFor(email string) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	email = strings.TrimSpace(email)
	if key, ok := cartdom.StorageKey(email); ok {
		h.store.Remove(key)
	}

	h.mu.Lock()
	active := h.email == email
	if active {
		h.items = cartdom.Record{}
	}
	h.mu.Unlock()

	if active {
		h.subs.emit(CartSnapshot{Email: email, Items: cartdom.Record{}})
	}
}

// RemovePaidFor drops one occurrence of each paid id from the cart of email.
// Whatever was added in the meantime stays; an emptied cart has its key
// removed, as ClearFor does.
func (h *CartHolder) RemovePaidFor(email string, paid []string) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	email = strings.TrimSpace(email)
	key, persisted := cartdom.StorageKey(email)

	h.mu.RLock()
	active := h.email == email
	cur := h.items.Clone()
	h.mu.RUnlock()

	if !active {
		if !persisted {
			return
		}
		cur = cartdom.Record{}
		if raw, ok := h.store.Get(key); ok {
			if rec, ok := cartdom.Decode(raw); ok {
				cur = rec
			}
		}
	}

	rest := cur
	for _, id := range paid {
		rest, _ = rest.RemoveFirst(id)
	}

	if persisted {
		if len(rest) == 0 {
			h.store.Remove(key)
		} else {
			h.store.Set(key, rest.Encode())
		}
	}
	if !active {
		return
	}

	h.mu.Lock()
	h.items = rest
	h.mu.Unlock()
	h.subs.emit(CartSnapshot{Email: email, Items: rest.Clone()})
}

// Subscribe registers fn for every subsequent change of the visible cart.
func (h *CartHolder) Subscribe(fn func(CartSnapshot)) (unsubscribe func()) {
	return h.subs.add(fn)
}

func (h *CartHolder) follow(email string) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	h.mu.RLock()
	same := h.email == strings.TrimSpace(email)
	h.mu.RUnlock()
	if same {
		return
	}
	h.loadLocked(email)
}

// loadLocked runs the identity-change algorithm. Caller holds opMu.
func (h *CartHolder) loadLocked(email string) {
	email = strings.TrimSpace(email)

	var items cartdom.Record
	key, ok := cartdom.StorageKey(email)
	switch {
	case !ok:
		items = cartdom.Record{}
	default:
		raw, found := h.store.Get(key)
		rec, parsed := cartdom.Record(nil), false
		if found {
			rec, parsed = cartdom.Decode(raw)
			if !parsed {
				log.Printf("[cart_holder] WARN: corrupt cart record key=%q (re-initialized empty)", key)
			}
		}
		if parsed {
			items = rec
		} else {
			items = cartdom.Record{}
			h.store.Set(key, items.Encode())
		}
	}

	h.mu.Lock()
	h.email = email
	h.items = items
	h.mu.Unlock()

	h.subs.emit(CartSnapshot{Email: email, Items: items.Clone()})
}

func (h *CartHolder) mutateFor(email string, fn func(cartdom.Record) cartdom.Record) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	email = strings.TrimSpace(email)

	h.mu.RLock()
	active := h.email == email
	cur := h.items.Clone()
	h.mu.RUnlock()

	key, persisted := cartdom.StorageKey(email)

	if !active {
		if !persisted {
			log.Printf("[cart_holder] guest cart change dropped after identity switch")
			return
		}
		base := cartdom.Record{}
		if raw, ok := h.store.Get(key); ok {
			if rec, ok := cartdom.Decode(raw); ok {
				base = rec
			}
		}
		h.store.Set(key, fn(base).Encode())
		log.Printf("[cart_holder] change written to inactive cart key=%q", key)
		return
	}

	next := fn(cur)

	h.mu.Lock()
	h.items = next
	h.mu.Unlock()

	if persisted {
		h.store.Set(key, next.Encode())
	}
	h.subs.emit(CartSnapshot{Email: email, Items: next.Clone()})
}
