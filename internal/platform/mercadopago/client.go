package mercadopago

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

	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/pkg/config"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/metrics"
)

// Client is the subset of the Mercado Pago REST API this service uses.
type Client interface {
	// CreatePreference creates a one-off checkout preference.
	CreatePreference(ctx context.Context, req *PreferenceRequest) (*Preference, error)
	// CreatePreapproval creates a recurring subscription agreement.
	CreatePreapproval(ctx context.Context, req *PreapprovalRequest) (*Preapproval, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	GetPreapproval(ctx context.Context, preapprovalID string) (*Preapproval, error)
	// SearchPaymentsByExternalReference returns payments for ref, newest first.
	SearchPaymentsByExternalReference(ctx context.Context, ref string) ([]*Payment, error)
}

const maxResponseBytes = 1 << 20

type HTTPClient struct {
	baseURL     string
	accessToken string
	http        *http.Client
	log         *zap.SugaredLogger
}

func NewClient(cfg *config.Config, log *zap.SugaredLogger) Client {
	return NewHTTPClient(cfg.MercadoPago.BaseURL, cfg.MercadoPago.AccessToken, cfg.MercadoPago.Timeout, log)
}

func NewHTTPClient(baseURL, accessToken string, timeout time.Duration, log *zap.SugaredLogger) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
}

func (c *HTTPClient) CreatePreference(ctx context.Context, req *PreferenceRequest) (*Preference, error) {
	var out Preference
	if err := c.do(ctx, "create_preference", http.MethodPost, "/checkout/preferences", req.ExternalReference, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreatePreapproval(ctx context.Context, req *PreapprovalRequest) (*Preapproval, error) {
	var out Preapproval
	if err := c.do(ctx, "create_preapproval", http.MethodPost, "/preapproval", req.ExternalReference, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, "get_payment", http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetPreapproval(ctx context.Context, preapprovalID string) (*Preapproval, error) {
	var out Preapproval
	if err := c.do(ctx, "get_preapproval", http.MethodGet, "/preapproval/"+url.PathEscape(preapprovalID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchPaymentsByExternalReference(ctx context.Context, ref string) ([]*Payment, error) {
	q := url.Values{}
	q.Set("external_reference", ref)
	q.Set("sort", "date_created")
	q.Set("criteria", "desc")
	var out PaymentSearchResult
	if err := c.do(ctx, "search_payments", http.MethodGet, "/v1/payments/search?"+q.Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// do performs one JSON call. idempotencyKey, when set, lets the processor deduplicate
// creation retries.
func (c *HTTPClient) do(ctx context.Context, op, method, path, idempotencyKey string, in, out any) (resErr error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstreamCall(op, start, resErr) }()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &ProviderError{Op: op, Code: ErrorCodeDecode, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &ProviderError{Op: op, Code: ErrorCodeUnavailable, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logctx.FromCtx(ctx, c.log).Warnw("mercadopago_call_failed", "op", op, "err", err, "elapsed_ms", time.Since(start).Milliseconds())
		return transportError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(op, err)
	}

	if resp.StatusCode >= 300 {
		pe := &ProviderError{Op: op, StatusCode: resp.StatusCode, Code: ErrorCodeUnavailable}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			pe.Code = ErrorCodeNotFound
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			pe.Code = ErrorCodeRejected
		}
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil {
			pe.Message = ae.Message
		}
		logctx.FromCtx(ctx, c.log).Warnw("mercadopago_call_rejected", "op", op, "status", resp.StatusCode, "message", pe.Message)
		return pe
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &ProviderError{Op: op, Code: ErrorCodeDecode, StatusCode: resp.StatusCode, Err: err}
		}
	}
	logctx.FromCtx(ctx, c.log).Debugw("mercadopago_call", "op", op, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
