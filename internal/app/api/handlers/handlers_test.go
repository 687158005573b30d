package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/internal/app/service/checkout"
	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/internal/app/service/statistics"
	"github.com/fatflowers/marketpay/internal/app/service/status"
	"github.com/fatflowers/marketpay/internal/app/service/transaction"
	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/response"
)

var nop = zap.NewNop().Sugar()

type stubCheckout struct {
	userID string
	err    error
}

func (s *stubCheckout) CreateCheckout(_ context.Context, userID string, req *checkout.CreateCheckoutRequest) (*checkout.CheckoutResult, error) {
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &checkout.CheckoutResult{ExternalReference: "ORD-1", PreferenceID: "pref-1", InitPoint: "https://mp/checkout"}, nil
}

func (s *stubCheckout) CreateSubscription(_ context.Context, userID string, req *checkout.CreateSubscriptionRequest) (*checkout.SubscriptionResult, error) {
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &checkout.SubscriptionResult{ExternalReference: "SUB-1", VendorSubscriptionID: "pre-1"}, nil
}

type stubStatus struct{ err error }

func (s *stubStatus) GetByExternalReference(_ context.Context, _, ref string) (*status.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &status.View{ExternalReference: ref}, nil
}

func (s *stubStatus) Sync(_ context.Context, _, ref string) (*status.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &status.View{ExternalReference: ref, Sync: &reconcile.Outcome{Result: reconcile.ResultHandled}}, nil
}

type stubNotifications struct {
	got *reconcile.Notification
	out *reconcile.Outcome
	err error
}

func (s *stubNotifications) HandleNotification(_ context.Context, n *reconcile.Notification) (*reconcile.Outcome, error) {
	s.got = n
	return s.out, s.err
}

type stubScanner struct{ err error }

func (s *stubScanner) ScanTransactions(context.Context, *transaction.ScanRequest) (*transaction.ScanTransactionsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &transaction.ScanTransactionsResponse{Total: 2}, nil
}

func (s *stubScanner) ScanSubscriptions(context.Context, *transaction.ScanRequest) (*transaction.ScanSubscriptionsResponse, error) {
	return &transaction.ScanSubscriptionsResponse{Total: 1}, nil
}

type stubStats struct{}

func (stubStats) GetStatistic(_ context.Context, req *statistics.StatisticRequest) (*statistics.StatisticResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	return &statistics.StatisticResponse{}, nil
}

// withUser stands in for AuthMiddleware.
func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(logctx.UserIDKey, id)
		c.Next()
	}
}

func newRouter(register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	return r
}

func do(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse[json.RawMessage] {
	t.Helper()
	var resp response.APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestApiCreateCheckout_PassesAuthenticatedUser(t *testing.T) {
	svc := &stubCheckout{}
	r := newRouter(func(r *gin.Engine) {
		g := r.Group("/api/v1", withUser("buyer-1"))
		RegisterCheckoutRoutes(g, svc, nop)
	})

	w := do(r, http.MethodPost, "/api/v1/checkout/preferences", map[string]any{
		"items": []map[string]any{{"id": "x1", "quantity": 2, "unit_price": "100", "currency_id": "ARS"}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "buyer-1", svc.userID)
	resp := decode(t, w)
	require.Equal(t, response.APIResponseCodeOK, resp.Code)
	require.Contains(t, string(resp.Data), `"external_reference":"ORD-1"`)
}

func TestApiCreateCheckout_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   response.APIResponseCode
	}{
		{"validation", apperr.Validation("items: required"), http.StatusBadRequest, response.APIResponseCodeBadRequest},
		{"auth", apperr.Auth("authentication required"), http.StatusUnauthorized, response.APIResponseCodeUnauthorized},
		{"upstream", apperr.Upstream(errors.New("timeout"), "create preference"), http.StatusBadGateway, response.APIResponseCodeUpstream},
		{"internal", apperr.Internal(errors.New("db down"), "persist"), http.StatusInternalServerError, response.APIResponseCodeError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(func(r *gin.Engine) { RegisterCheckoutRoutes(r, &stubCheckout{err: tc.err}, nop) })
			w := do(r, http.MethodPost, "/checkout/preferences", map[string]any{"items": []any{}}, nil)
			require.Equal(t, tc.status, w.Code)
			resp := decode(t, w)
			require.Equal(t, tc.code, resp.Code)
			require.NotContains(t, string(resp.Data), "db down")
		})
	}
}

func TestApiCreateCheckout_InvalidJSON(t *testing.T) {
	r := newRouter(func(r *gin.Engine) { RegisterCheckoutRoutes(r, &stubCheckout{}, nop) })
	w := do(r, http.MethodPost, "/checkout/preferences", "{not json", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiCreateSubscription_NotFoundPlan(t *testing.T) {
	r := newRouter(func(r *gin.Engine) {
		RegisterCheckoutRoutes(r, &stubCheckout{err: apperr.NotFound("plan %q", "gold")}, nop)
	})
	w := do(r, http.MethodPost, "/subscriptions", map[string]any{"plan_id": "gold", "payer_email": "a@b.co"}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestApiStatus(t *testing.T) {
	r := newRouter(func(r *gin.Engine) { RegisterStatusRoutes(r, &stubStatus{}, nop) })
	w := do(r, http.MethodGet, "/payments/status/ORD-9", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"external_reference":"ORD-9"`)

	w = do(r, http.MethodPost, "/payments/status/ORD-9/sync", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"result":"handled"`)

	r = newRouter(func(r *gin.Engine) { RegisterStatusRoutes(r, &stubStatus{err: apperr.Forbidden("not yours")}, nop) })
	w = do(r, http.MethodGet, "/payments/status/ORD-9", nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestApiMercadoPagoWebhook(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"handled", `{"type":"payment","data":{"id":"PAY123"}}`, nil, http.StatusOK},
		{"invalid json", `{"type":`, nil, http.StatusBadRequest},
		{"malformed", `{}`, fmt.Errorf("%w: type and data.id are required", reconcile.ErrMalformedNotification), http.StatusBadRequest},
		{"unverified", `{"type":"payment","data":{"id":"1"}}`, fmt.Errorf("%w: bad", reconcile.ErrUnverifiedNotification), http.StatusUnauthorized},
		{"processing error acked", `{"type":"payment","data":{"id":"1"}}`, errors.New("processor down"), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &stubNotifications{out: &reconcile.Outcome{Result: reconcile.ResultHandled}, err: tc.err}
			r := newRouter(func(r *gin.Engine) { RegisterWebhookRoutes(r.Group("/webhooks"), h, nop) })
			w := do(r, http.MethodPost, "/webhooks/mercadopago", tc.body, map[string]string{
				"x-signature":  "ts=1,v1=abc",
				"x-request-id": "req-1",
			})
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestApiMercadoPagoWebhook_QueryAndHeadersReachService(t *testing.T) {
	h := &stubNotifications{out: &reconcile.Outcome{Result: reconcile.ResultIgnored}}
	r := newRouter(func(r *gin.Engine) { RegisterWebhookRoutes(r, h, nop) })
	w := do(r, http.MethodPost, "/mercadopago?type=payment&data.id=77", `{}`, map[string]string{
		"x-signature":  "ts=1,v1=abc",
		"x-request-id": "req-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "payment", h.got.Type)
	require.Equal(t, "77", h.got.DataID)
	require.Equal(t, "req-1", h.got.RequestID)
	require.Equal(t, "ts=1,v1=abc", h.got.Signature)
}

func TestAdminRoutes(t *testing.T) {
	r := newRouter(func(r *gin.Engine) { RegisterAdminRoutes(r, &stubScanner{}, stubStats{}, nop) })

	w := do(r, http.MethodPost, "/list_transactions", map[string]any{"size": 10}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":2`)

	w = do(r, http.MethodPost, "/list_subscriptions", map[string]any{}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/get_statistic", map[string]any{"data_items": []any{}}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	r = newRouter(func(r *gin.Engine) {
		RegisterAdminRoutes(r, &stubScanner{err: apperr.Validation("unsupported sort_by")}, stubStats{}, nop)
	})
	w = do(r, http.MethodPost, "/list_transactions", map[string]any{"sort_by": "password"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newRouter(func(r *gin.Engine) { RegisterHealthRoutes(r) })
	w := do(r, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}
