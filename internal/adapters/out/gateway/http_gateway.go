// internal/adapters/out/gateway/http_gateway.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain/common"
	paymentdom "storefront/internal/domain/payment"
)

// HTTPConfig identifies a merchant account on a REST payment gateway.
type HTTPConfig struct {
	BaseURL    string
	MerchantID string
	PublicKey  string
	PrivateKey string
}

// HTTPGateway implements payment.Gateway against a REST gateway using basic auth
// (public key / private key).
type HTTPGateway struct {
	cfg    HTTPConfig
	client *http.Client
}

func NewHTTPGateway(cfg HTTPConfig) (*HTTPGateway, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.MerchantID = strings.TrimSpace(cfg.MerchantID)
	if cfg.BaseURL == "" || cfg.MerchantID == "" {
		return nil, fmt.Errorf("gateway: base url and merchant id are required")
	}
	if strings.TrimSpace(cfg.PublicKey) == "" || strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, fmt.Errorf("gateway: public and private keys are required")
	}
	return &HTTPGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type clientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

type saleRequest struct {
	Amount             string      `json:"amount"`
	PaymentMethodNonce string      `json:"paymentMethodNonce"`
	Options            saleOptions `json:"options"`
}

type saleOptions struct {
	SubmitForSettlement bool `json:"submitForSettlement"`
}

type saleResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Transaction *struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"transaction"`
}

func (g *HTTPGateway) GenerateClientToken(ctx context.Context) (string, error) {
	var out clientTokenResponse
	if err := g.post(ctx, "client_token", map[string]any{}, &out, false); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.ClientToken) == "" {
		return "", fmt.Errorf("%w: empty client token", paymentdom.ErrGateway)
	}
	return out.ClientToken, nil
}

func (g *HTTPGateway) Sale(ctx context.Context, nonce string, amountCents int64) (paymentdom.Result, error) {
	if strings.TrimSpace(nonce) == "" {
		return paymentdom.Result{}, paymentdom.ErrMissingNonce
	}
	req := saleRequest{
		Amount:             decimalAmount(amountCents),
		PaymentMethodNonce: nonce,
		Options:            saleOptions{SubmitForSettlement: true},
	}
	var out saleResponse
	// 422 carries a declined result body, not a transport failure.
	if err := g.post(ctx, "transactions", req, &out, true); err != nil {
		return paymentdom.Result{}, err
	}

	res := paymentdom.Result{Success: out.Success, Message: strings.TrimSpace(out.Message)}
	if out.Transaction != nil {
		res.TransactionID = out.Transaction.ID
		res.Status = out.Transaction.Status
	}
	if !res.Success && res.Message == "" {
		res.Message = "Transaction declined"
	}
	return res, nil
}

func (g *HTTPGateway) post(ctx context.Context, resource string, in, out any, acceptUnprocessable bool) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	endpoint := g.cfg.BaseURL + "/merchants/" + url.PathEscape(g.cfg.MerchantID) + "/" + resource

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.cfg.PublicKey, g.cfg.PrivateKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", paymentdom.ErrGateway, err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	ok := res.StatusCode >= 200 && res.StatusCode < 300
	if !ok && !(acceptUnprocessable && res.StatusCode == http.StatusUnprocessableEntity) {
		return fmt.Errorf("%w: status=%d body=%s", paymentdom.ErrGateway, res.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", paymentdom.ErrGateway, resource, err)
	}
	return nil
}

// decimalAmount renders cents as "12.50" (gateways take decimal strings).
func decimalAmount(cents int64) string {
	return fmt.Sprintf("%.2f", common.FromCents(cents))
}
