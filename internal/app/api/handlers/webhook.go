package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/response"
)

const maxWebhookBody = 1 << 20

// NotificationHandler is implemented by *reconcile.Service.
type NotificationHandler interface {
	HandleNotification(ctx context.Context, n *reconcile.Notification) (*reconcile.Outcome, error)
}

// @Summary      Mercado Pago webhook
// @Description  Receives payment and preapproval notifications. Processing errors are acknowledged with 200 so the processor does not retry forever; only malformed (400) and unverified (401) deliveries are rejected.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        x-signature header string false "ts=<unix>,v1=<hmac>"
// @Param        x-request-id header string false "Delivery id"
// @Param        payload body handlers.SwaggerNotification true "Notification envelope"
// @Success      200  {object}  handlers.RespOutcome
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Router       /api/v1/webhooks/mercadopago [post]
func ApiMercadoPagoWebhook(h NotificationHandler, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			log.Warnw("webhook_read_failed", "err", err)
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "unreadable body"))
			return
		}
		log.Infow("webhook_received", "bytes", len(body))

		n, err := reconcile.ParseNotification(body, c.Request.URL.Query(), c.Request.Header)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		out, err := h.HandleNotification(c.Request.Context(), n)
		switch {
		case errors.Is(err, reconcile.ErrMalformedNotification):
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
		case errors.Is(err, reconcile.ErrUnverifiedNotification):
			c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid signature"))
		case err != nil:
			log.Errorw("webhook_handle_error", "err", err, "event_type", n.Type, "data_id", n.DataID)
			c.JSON(http.StatusOK, response.OKT(out))
		default:
			c.JSON(http.StatusOK, response.OKT(out))
		}
	}
}

func RegisterWebhookRoutes(r gin.IRouter, h NotificationHandler, log *zap.SugaredLogger) {
	r.POST("/mercadopago", ApiMercadoPagoWebhook(h, log))
}
