package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/localstore"
	authdom "storefront/internal/domain/auth"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/session"
)

func login(a *AuthHolder, email string) {
	a.Set(authdom.Record{
		User:  &authdom.UserProfile{ID: "id-" + email, Name: email, Email: email},
		Token: "token-" + email,
	})
}

func persistedCart(t *testing.T, s session.Store, email string) (cartdom.Record, bool) {
	t.Helper()
	key, ok := cartdom.StorageKey(email)
	require.True(t, ok)
	raw, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	rec, ok := cartdom.Decode(raw)
	require.True(t, ok, "persisted cart must be a JSON array: %q", raw)
	return rec, true
}

func cartKeys(s *localstore.MemoryStore) []string {
	var out []string
	for _, k := range s.Keys() {
		if k != session.AuthKey {
			out = append(out, k)
		}
	}
	return out
}

func TestAuthHolder_RehydratesAndWritesThrough(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	assert.Equal(t, authdom.Empty(), a.Get())

	login(a, "a@x.com")

	raw, ok := store.Get(session.AuthKey)
	require.True(t, ok)
	rec, ok := authdom.Decode(raw)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", rec.Email())

	again := NewAuthHolder(store)
	assert.Equal(t, "a@x.com", again.Email())
	assert.Equal(t, "token-a@x.com", again.Get().Token)
}

func TestAuthHolder_CorruptRecordIsLoggedOut(t *testing.T) {
	store := localstore.NewMemoryStore()
	store.Set(session.AuthKey, "{broken")

	a := NewAuthHolder(store)
	assert.Equal(t, authdom.Empty(), a.Get())
}

func TestAuthHolder_UpdateKeepsToken(t *testing.T) {
	a := NewAuthHolder(localstore.NewMemoryStore())
	login(a, "a@x.com")

	a.Update(func(r authdom.Record) authdom.Record {
		r.User.Phone = "555"
		return r
	})

	got := a.Get()
	assert.Equal(t, "555", got.User.Phone)
	assert.Equal(t, "token-a@x.com", got.Token)
}

func TestAuthHolder_SubscribeUnsubscribe(t *testing.T) {
	a := NewAuthHolder(localstore.NewMemoryStore())
	var seen []string
	stop := a.Subscribe(func(r authdom.Record) { seen = append(seen, r.Email()) })

	login(a, "a@x.com")
	a.Logout()
	stop()
	login(a, "b@x.com")

	assert.Equal(t, []string{"a@x.com", ""}, seen)
}

func TestCartHolder_FirstSeenUserGetsDurableEmptyCart(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	defer c.Close()

	login(a, "a@x.com")

	rec, ok := persistedCart(t, store, "a@x.com")
	require.True(t, ok)
	assert.Empty(t, rec)
	assert.Equal(t, 0, c.Count())
}

func TestCartHolder_AdoptsStoredCartVerbatim(t *testing.T) {
	store := localstore.NewMemoryStore()
	store.Set("carta@x.com", `["p1","p1","no-such-product"]`)

	a := NewAuthHolder(store)
	login(a, "a@x.com")
	c := NewCartHolder(store, a)

	assert.Equal(t, cartdom.Record{"p1", "p1", "no-such-product"}, c.Items())
}

func TestCartHolder_CorruptCartReinitialized(t *testing.T) {
	store := localstore.NewMemoryStore()
	store.Set("carta@x.com", `{"oops":true}`)

	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	login(a, "a@x.com")

	assert.Empty(t, c.Items())
	rec, ok := persistedCart(t, store, "a@x.com")
	require.True(t, ok)
	assert.Empty(t, rec)
}

// P1
func TestCartHolder_IsolationBetweenEmails(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)

	login(a, "e1@x.com")
	c.Add("p1")
	c.Add("p2")

	login(a, "e2@x.com")
	assert.Empty(t, c.Items(), "e2 must not see e1's items")
	c.Add("p9")

	login(a, "e1@x.com")
	assert.Equal(t, cartdom.Record{"p1", "p2"}, c.Items())

	e2, _ := persistedCart(t, store, "e2@x.com")
	assert.Equal(t, cartdom.Record{"p9"}, e2)
}

// P2
func TestCartHolder_PersistenceRoundTrip(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)

	login(a, "e@x.com")
	c.Add("p3")
	c.Add("p1")
	c.Add("p3")
	c.Add("p2")
	c.Remove("p3")

	a.Logout()
	assert.Empty(t, c.Items())
	login(a, "e@x.com")

	assert.Equal(t, cartdom.Record{"p1", "p3", "p2"}, c.Items())

	// reload: brand new holders over the same store
	a2 := NewAuthHolder(store)
	c2 := NewCartHolder(store, a2)
	assert.Equal(t, cartdom.Record{"p1", "p3", "p2"}, c2.Items())
}

// P3
func TestCartHolder_GuestNeverPersisted(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)

	c.Add("p1")
	c.Add("p2")
	assert.Equal(t, 2, c.Count())
	assert.Empty(t, cartKeys(store))

	// reload as guest
	c2 := NewCartHolder(store, NewAuthHolder(store))
	assert.Empty(t, c2.Items())
}

func TestCartHolder_GuestItemsDiscardedOnLogin(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)

	c.Add("guest-pick")
	login(a, "a@x.com")

	assert.Empty(t, c.Items())
	rec, _ := persistedCart(t, store, "a@x.com")
	assert.Empty(t, rec)
}

// Scenario B + C
func TestCartHolder_AddThenRemoveUpdatesBadgeAndStore(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	login(a, "a@x.com")

	c.Add("p1")
	c.Add("p2")
	assert.Equal(t, 2, c.Count())

	c.Remove("p1")
	assert.Equal(t, 1, c.Count())
	rec, ok := persistedCart(t, store, "a@x.com")
	require.True(t, ok)
	assert.Equal(t, cartdom.Record{"p2"}, rec)
}

func TestCartHolder_SnapshotWriteAfterSwitchGoesToOriginalCart(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)

	login(a, "e1@x.com")
	clickedAs := c.Email()

	login(a, "e2@x.com") // switch lands before the write
	c.AddAs(clickedAs, "p1")

	assert.Empty(t, c.Items(), "visible e2 cart untouched")
	e1, _ := persistedCart(t, store, "e1@x.com")
	assert.Equal(t, cartdom.Record{"p1"}, e1)
	e2, _ := persistedCart(t, store, "e2@x.com")
	assert.Empty(t, e2)
}

func TestCartHolder_ClearForDeletesKey(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	login(a, "a@x.com")
	c.Add("p1")

	c.ClearFor("a@x.com")

	assert.Empty(t, c.Items())
	_, ok := persistedCart(t, store, "a@x.com")
	assert.False(t, ok, "key must be removed, not overwritten")
}

func TestCartHolder_ClearForInactiveEmailLeavesVisibleCart(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	login(a, "e1@x.com")
	c.Add("p1")
	login(a, "e2@x.com")
	c.Add("p2")

	c.ClearFor("e1@x.com")

	assert.Equal(t, cartdom.Record{"p2"}, c.Items())
	_, ok := persistedCart(t, store, "e1@x.com")
	assert.False(t, ok)
}

func TestCartHolder_RemovePaidForKeepsLaterAdditions(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	login(a, "a@x.com")
	c.Set([]string{"p1", "p2", "p1", "p3"})

	c.RemovePaidFor("a@x.com", []string{"p1", "p2"})

	assert.Equal(t, cartdom.Record{"p1", "p3"}, c.Items())
	rec, ok := persistedCart(t, store, "a@x.com")
	require.True(t, ok)
	assert.Equal(t, cartdom.Record{"p1", "p3"}, rec)

	c.RemovePaidFor("a@x.com", []string{"p1", "p3"})
	assert.Empty(t, c.Items())
	_, ok = persistedCart(t, store, "a@x.com")
	assert.False(t, ok, "emptied cart key removed")
}

func TestCartHolder_RemovePaidForInactiveEmail(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)
	login(a, "e1@x.com")
	c.Set([]string{"p1", "p4"})
	login(a, "e2@x.com")
	c.Add("p2")

	c.RemovePaidFor("e1@x.com", []string{"p1"})

	assert.Equal(t, cartdom.Record{"p2"}, c.Items())
	rec, ok := persistedCart(t, store, "e1@x.com")
	require.True(t, ok)
	assert.Equal(t, cartdom.Record{"p4"}, rec)
}

func TestCartHolder_NotifiesOnChange(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := NewAuthHolder(store)
	c := NewCartHolder(store, a)

	var counts []int
	c.Subscribe(func(s CartSnapshot) { counts = append(counts, len(s.Items)) })

	login(a, "a@x.com") // reload -> 0
	c.Add("p1")         // 1
	c.Set([]string{"p1", "p2", "p3"})
	a.Set(a.Get()) // same email: no reload

	assert.Equal(t, []int{0, 1, 3}, counts)
}
