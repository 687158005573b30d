package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/marketpay/internal/app/api/middleware"
	"github.com/fatflowers/marketpay/internal/app/service/status"
	"github.com/fatflowers/marketpay/pkg/response"
)

// StatusService is implemented by *status.Service.
type StatusService interface {
	GetByExternalReference(ctx context.Context, userID, ref string) (*status.View, error)
	Sync(ctx context.Context, userID, ref string) (*status.View, error)
}

// @Summary      Payment status
// @Description  Returns the current status of the caller's transaction or subscription.
// @Tags         Status
// @Produce      json
// @Security     BearerAuth
// @Param        external_reference path string true "External reference"
// @Success      200  {object}  handlers.RespStatus
// @Failure      403  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/payments/status/{external_reference} [get]
func ApiGetStatus(svc StatusService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.GetByExternalReference(c.Request.Context(), mw.UserID(c), c.Param("external_reference"))
		if err != nil {
			writeError(c, log, "status_get_failed", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Sync payment status
// @Description  Fetches the current state from Mercado Pago, applies it and returns the updated status.
// @Tags         Status
// @Produce      json
// @Security     BearerAuth
// @Param        external_reference path string true "External reference"
// @Success      200  {object}  handlers.RespStatus
// @Failure      403  {object}  handlers.RespError
// @Failure      502  {object}  handlers.RespError
// @Router       /api/v1/payments/status/{external_reference}/sync [post]
func ApiSyncStatus(svc StatusService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Sync(c.Request.Context(), mw.UserID(c), c.Param("external_reference"))
		if err != nil {
			writeError(c, log, "status_sync_failed", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

func RegisterStatusRoutes(r gin.IRouter, svc StatusService, log *zap.SugaredLogger) {
	r.GET("/payments/status/:external_reference", ApiGetStatus(svc, log))
	r.POST("/payments/status/:external_reference/sync", ApiSyncStatus(svc, log))
}
