package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/marketpay/internal/app/api/middleware"
	"github.com/fatflowers/marketpay/internal/app/service/checkout"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/response"
)

// CheckoutService is implemented by *checkout.Service.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, userID string, req *checkout.CreateCheckoutRequest) (*checkout.CheckoutResult, error)
	CreateSubscription(ctx context.Context, userID string, req *checkout.CreateSubscriptionRequest) (*checkout.SubscriptionResult, error)
}

// @Summary      Create checkout preference
// @Description  Creates a Mercado Pago checkout preference for the cart and records a pending transaction.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body checkout.CreateCheckoutRequest true "Cart items and optional payer"
// @Success      200  {object}  handlers.RespCheckout
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Failure      502  {object}  handlers.RespError
// @Router       /api/v1/checkout/preferences [post]
func ApiCreateCheckout(svc CheckoutService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CreateCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.CreateCheckout(c.Request.Context(), mw.UserID(c), &req)
		if err != nil {
			writeError(c, log, "checkout_create_failed", err)
			return
		}
		logctx.FromGin(c, log).Infow("checkout_created", "external_reference", res.ExternalReference, "preference_id", res.PreferenceID)
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Create subscription
// @Description  Creates a Mercado Pago preapproval for a configured plan and records a pending subscription.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body checkout.CreateSubscriptionRequest true "Plan and payer email"
// @Success      200  {object}  handlers.RespSubscription
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Failure      502  {object}  handlers.RespError
// @Router       /api/v1/subscriptions [post]
func ApiCreateSubscription(svc CheckoutService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CreateSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.CreateSubscription(c.Request.Context(), mw.UserID(c), &req)
		if err != nil {
			writeError(c, log, "subscription_create_failed", err)
			return
		}
		logctx.FromGin(c, log).Infow("subscription_created", "external_reference", res.ExternalReference, "plan_id", req.PlanID)
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// RegisterCheckoutRoutes mounts checkout routes on an authenticated group.
func RegisterCheckoutRoutes(r gin.IRouter, svc CheckoutService, log *zap.SugaredLogger) {
	r.POST("/checkout/preferences", ApiCreateCheckout(svc, log))
	r.POST("/subscriptions", ApiCreateSubscription(svc, log))
}
