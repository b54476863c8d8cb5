package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/localstore"
	"storefront/internal/application/checkout"
)

type fakeAPI struct {
	mu       sync.Mutex
	payments []map[string]any
	decline  string
	expired  bool
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid Password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"login successfully",` +
			`"user":{"_id":"u1","name":"Ann","email":"` + in["email"] + `","role":0},"token":"tok-1"}`))
	})
	mux.HandleFunc("/api/v1/product/cart-products", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		var products []map[string]any
		for _, id := range ids {
			if id == "p1" {
				products = append(products, map[string]any{"_id": "p1", "name": "Lamp", "price": 12.5})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"products": products})
	})
	mux.HandleFunc("/api/v1/product/braintree/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"clientToken":"ct-1"}`))
	})
	mux.HandleFunc("/api/v1/product/braintree/payment", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.payments = append(f.payments, in)
		decline, expired := f.decline, f.expired
		f.mu.Unlock()
		if expired {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"unauthorized: invalid token"}`))
			return
		}
		if decline != "" {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"ok":false,"message":"` + decline + `"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	return mux
}

type harness struct {
	store *localstore.MemoryStore
	cfg   *Config
}

func newHarness(t *testing.T, api *fakeAPI) *harness {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	cfg := DefaultConfig(t.TempDir())
	cfg.APIURL = srv.URL
	return &harness{store: localstore.NewMemoryStore(), cfg: cfg}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(func(cmd *cobra.Command) (*App, error) {
		return NewAppWithStore(h.cfg, cmd.OutOrStdout(), h.store), nil
	})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginCartCheckout(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)

	out, err := h.run(t, "login", "--email", "ann@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ann <ann@example.com>")

	_, err = h.run(t, "cart", "add", "p1", "p1", "gone")
	require.NoError(t, err)

	out, err = h.run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "(no longer available)")
	assert.Contains(t, out, "ann@example.com")

	_, err = h.run(t, "cart", "remove", "gone")
	require.NoError(t, err)

	out, err = h.run(t, "checkout", "--nonce", "fake-valid-nonce")
	require.NoError(t, err)
	assert.Contains(t, out, checkout.SuccessMessage)
	assert.Contains(t, out, checkout.OrdersPath)

	require.Len(t, api.payments, 1)
	assert.Equal(t, "fake-valid-nonce", api.payments[0]["nonce"])
	assert.Len(t, api.payments[0]["cart"], 2)

	out, err = h.run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, EmptyCartMessage)
}

func TestCartSurvivesLogoutAndLogin(t *testing.T) {
	h := newHarness(t, &fakeAPI{})

	_, err := h.run(t, "login", "--email", "ann@example.com", "--password", "secret")
	require.NoError(t, err)
	_, err = h.run(t, "cart", "add", "p1")
	require.NoError(t, err)

	out, err := h.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "guest\n", out)

	out, err = h.run(t, "login", "--email", "ann@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, cartBadge(1))
}

func TestLoginRejectedShowsServerMessage(t *testing.T) {
	h := newHarness(t, &fakeAPI{})

	_, err := h.run(t, "login", "--email", "ann@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid Password", err.Error())
}

func TestLoginRequiresFlags(t *testing.T) {
	h := newHarness(t, &fakeAPI{})

	_, err := h.run(t, "login", "--email", "ann@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestCheckoutDeclinedKeepsCart(t *testing.T) {
	api := &fakeAPI{decline: "Insufficient Funds"}
	h := newHarness(t, api)

	_, err := h.run(t, "login", "--email", "ann@example.com", "--password", "secret")
	require.NoError(t, err)
	_, err = h.run(t, "cart", "add", "p1")
	require.NoError(t, err)

	out, err := h.run(t, "checkout", "--nonce", "fake-processor-declined-visa-nonce")
	require.Error(t, err)
	assert.Contains(t, out, "Insufficient Funds")

	out, err = h.run(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Lamp")
}

func TestCheckoutExpiredSessionAsksForLogin(t *testing.T) {
	api := &fakeAPI{expired: true}
	h := newHarness(t, api)

	_, err := h.run(t, "login", "--email", "ann@example.com", "--password", "secret")
	require.NoError(t, err)
	_, err = h.run(t, "cart", "add", "p1")
	require.NoError(t, err)

	out, err := h.run(t, "checkout", "--nonce", "fake-valid-nonce")
	require.Error(t, err)
	assert.Equal(t, "session expired, please log in again", err.Error())
	assert.Contains(t, out, checkout.GenericPaymentMessage)
	assert.NotContains(t, out, "invalid token")
}

func TestCheckoutWithoutNonce(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)

	_, err := h.run(t, "login", "--email", "ann@example.com", "--password", "secret")
	require.NoError(t, err)
	_, err = h.run(t, "cart", "add", "p1")
	require.NoError(t, err)

	out, err := h.run(t, "checkout")
	require.Error(t, err)
	assert.Contains(t, out, checkout.NoNonceMessage)
	assert.Empty(t, api.payments)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newHarness(t, &fakeAPI{})

	out, err := h.run(t, "checkout", "--nonce", "fake-valid-nonce")
	require.NoError(t, err)
	assert.Contains(t, out, EmptyCartMessage)
}
