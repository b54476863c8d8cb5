// internal/adapters/out/http/api_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	"storefront/internal/domain/product"
)

const apiPrefix = "/api/v1"

// APIError is returned for every non-2xx answer and for {ok:false} payment answers.
type APIError struct {
	Status  int
	Message string
	// Rejected is true when the server refused the request on business grounds
	// (400, 402, 422 or ok:false). Auth failures and 5xx answers are not
	// rejections.
	Rejected bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed status=%d", e.Status)
	}
	return fmt.Sprintf("api: request failed status=%d message=%s", e.Status, e.Message)
}

// RejectionMessage is the server-supplied message of a business rejection, or "".
func (e *APIError) RejectionMessage() string {
	if !e.Rejected {
		return ""
	}
	return e.Message
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

// Client talks to the storefront REST API.
//
// baseURL example:
// - local: http://localhost:8080
type Client struct {
	baseURL string
	client  *http.Client
	token   func() string
}

// NewClient builds a client; token is consulted on every request (nil = anonymous).
func NewClient(baseURL string, token func() string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		token:   token,
	}
}

// WithHTTPClient swaps the transport (tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.client = hc
	}
	return c
}

// ------------------------------------------------------------
// Auth
// ------------------------------------------------------------

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

type ProfileInput struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type authResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	User    *authdom.UserProfile `json:"user"`
	Token   string               `json:"token"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (authdom.UserProfile, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return authdom.UserProfile{}, err
	}
	if out.User == nil {
		return authdom.UserProfile{}, &APIError{Status: http.StatusOK, Message: out.Message, Rejected: true}
	}
	return *out.User, nil
}

// Login returns the record to store under the auth key.
func (c *Client) Login(ctx context.Context, email, password string) (authdom.Record, error) {
	var out authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return authdom.Record{}, err
	}
	if !out.Success || out.User == nil || out.Token == "" {
		return authdom.Record{}, &APIError{Status: http.StatusOK, Message: out.Message, Rejected: true}
	}
	return authdom.Record{User: out.User, Token: out.Token}, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	body := map[string]string{"email": email, "answer": answer, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", body, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (authdom.UserProfile, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPut, "/auth/profile", in, &out); err != nil {
		return authdom.UserProfile{}, err
	}
	if out.User == nil {
		return authdom.UserProfile{}, fmt.Errorf("api: profile response without user")
	}
	return *out.User, nil
}

// Orders lists the caller's orders.
func (c *Client) Orders(ctx context.Context) ([]orderdom.Order, error) {
	var out []orderdom.Order
	if err := c.do(ctx, http.MethodGet, "/auth/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Receipt downloads the PDF receipt of an order.
func (c *Client) Receipt(ctx context.Context, orderID string) ([]byte, error) {
	res, err := c.send(ctx, http.MethodGet, "/auth/orders/"+url.PathEscape(orderID)+"/receipt", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if err := checkStatus(res); err != nil {
		return nil, err
	}
	return io.ReadAll(res.Body)
}

// ------------------------------------------------------------
// Catalog
// ------------------------------------------------------------

// ProductsByIDs is the batch lookup behind cart resolution. The answer may be
// in any order and omits unknown ids.
func (c *Client) ProductsByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	var out struct {
		Products []product.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/product/cart-products?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ------------------------------------------------------------
// Payment
// ------------------------------------------------------------

func (c *Client) ClientToken(ctx context.Context) (string, error) {
	var out struct {
		ClientToken string `json:"clientToken"`
	}
	if err := c.do(ctx, http.MethodGet, "/product/braintree/token", nil, &out); err != nil {
		return "", err
	}
	return out.ClientToken, nil
}

// SubmitPayment posts {nonce, cart}; nil means {ok:true}.
func (c *Client) SubmitPayment(ctx context.Context, nonce string, items []product.ResolvedItem) error {
	body := struct {
		Nonce string                 `json:"nonce"`
		Cart  []product.ResolvedItem `json:"cart"`
	}{Nonce: nonce, Cart: items}

	var out struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/product/braintree/payment", body, &out); err != nil {
		return err
	}
	if !out.OK {
		return &APIError{Status: http.StatusOK, Message: out.Message, Rejected: true}
	}
	return nil
}

// ------------------------------------------------------------
// plumbing
// ------------------------------------------------------------

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	res, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("api client is nil")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("api client baseURL is empty")
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if tok := strings.TrimSpace(c.token()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	return c.client.Do(req)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func checkStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	msg := ""
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		msg = strings.TrimSpace(eb.Message)
		if msg == "" {
			msg = strings.TrimSpace(eb.Error)
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return &APIError{
		Status:   res.StatusCode,
		Message:  msg,
		Rejected: isRejectionStatus(res.StatusCode),
	}
}

func isRejectionStatus(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return true
	}
	return false
}
