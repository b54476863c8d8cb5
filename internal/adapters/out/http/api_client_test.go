package httpout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/application/checkout"
	"storefront/internal/domain/product"
)

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", func() string { return token })
}

func TestClient_ProductsByIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/product/cart-products", r.URL.Path)
		assert.Equal(t, "p1,p2", r.URL.Query().Get("ids"))
		_, _ = w.Write([]byte(`{"products":[{"_id":"p2","name":"Two","price":2.5},{"_id":"p1","name":"One","price":1}]}`))
	}, "")

	got, err := c.ProductsByIDs(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, 2.5, got[0].Price)
}

func TestClient_ProductsByIDsEmptySkipsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	}, "")
	got, err := c.ProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_ClientTokenSendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"clientToken":"tok"}`))
	}, "jwt-1")

	tok, err := c.ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestClient_SubmitPayment(t *testing.T) {
	var gotBody struct {
		Nonce string                   `json:"nonce"`
		Cart  []map[string]interface{} `json:"cart"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/product/braintree/payment", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, "jwt")

	err := c.SubmitPayment(context.Background(), "fake-valid-nonce", []product.ResolvedItem{
		{ID: "p1", Name: "One", Price: 1, Found: true},
		product.Placeholder("ghost"),
	})
	require.NoError(t, err)
	assert.Equal(t, "fake-valid-nonce", gotBody.Nonce)
	require.Len(t, gotBody.Cart, 2)
	assert.Equal(t, "ghost", gotBody.Cart[1]["_id"])
}

func TestClient_SubmitPaymentRejectionIsClassifiedVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"ok":false,"message":"Gateway Rejected: duplicate"}`))
	}, "jwt")

	err := c.SubmitPayment(context.Background(), "n", nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusPaymentRequired))

	kind, level, _ := checkout.Classify(err)
	assert.Equal(t, checkout.FailureDuplicate, kind)
	assert.Equal(t, checkout.LevelWarning, level)
}

func TestClient_OKFalseWith200IsRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"message":"Processor Declined"}`))
	}, "jwt")

	err := c.SubmitPayment(context.Background(), "n", nil)
	kind, _, msg := checkout.Classify(err)
	assert.Equal(t, checkout.FailureDeclined, kind)
	assert.Equal(t, "Processor Declined", msg)
}

func TestClient_ServerErrorIsGeneric(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"message":"order store unavailable"}`))
	}, "jwt")

	err := c.SubmitPayment(context.Background(), "n", nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "order store unavailable", ae.Message)
	assert.Equal(t, "", ae.RejectionMessage())

	kind, _, msg := checkout.Classify(err)
	assert.Equal(t, checkout.FailureGeneric, kind)
	assert.Equal(t, checkout.GenericPaymentMessage, msg)
}

func TestClient_ExpiredTokenIsNotADecline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"unauthorized: invalid token"}`))
	}, "stale")

	err := c.SubmitPayment(context.Background(), "n", nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.False(t, ae.Rejected)
	assert.Equal(t, "", ae.RejectionMessage())

	kind, _, msg := checkout.Classify(err)
	assert.Equal(t, checkout.FailureGeneric, kind)
	assert.Equal(t, checkout.GenericPaymentMessage, msg)
}

func TestClient_BadRequestIsRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"message":"Payment nonce is required"}`))
	}, "jwt")

	err := c.SubmitPayment(context.Background(), "", nil)
	kind, _, msg := checkout.Classify(err)
	assert.Equal(t, checkout.FailureDeclined, kind)
	assert.Equal(t, "Payment nonce is required", msg)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid Password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"login successfully","user":{"_id":"u1","name":"A","email":"a@x.com","role":0},"token":"jwt-a"}`))
	}, "")

	rec, err := c.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", rec.Email())
	assert.Equal(t, "jwt-a", rec.Token)

	_, err = c.Login(context.Background(), "a@x.com", "nope")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Invalid Password", ae.Message)
}

func TestClient_EmptyBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil).ClientToken(context.Background())
	assert.Error(t, err)
}
