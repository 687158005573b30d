package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/internal/app/service/statistics"
	"github.com/fatflowers/marketpay/internal/app/service/transaction"
	"github.com/fatflowers/marketpay/pkg/response"
)

// StatisticService is implemented by *statistics.Service.
type StatisticService interface {
	GetStatistic(ctx context.Context, req *statistics.StatisticRequest) (*statistics.StatisticResponse, error)
}

// @Summary      List Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of checkout transactions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     AdminToken
// @Param        request body transaction.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListTransactions
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/admin/list_transactions [post]
func ApiListTransactions(scanner transaction.Scanner, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transaction.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := scanner.ScanTransactions(c.Request.Context(), &req)
		if err != nil {
			writeError(c, log, "admin_list_transactions_failed", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List Subscriptions (Admin)
// @Description  Retrieves a paginated and filterable list of subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     AdminToken
// @Param        request body transaction.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(scanner transaction.Scanner, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transaction.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := scanner.ScanSubscriptions(c.Request.Context(), &req)
		if err != nil {
			writeError(c, log, "admin_list_subscriptions_failed", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Statistics (Admin)
// @Description  Computes daily transaction and subscription statistics. Money values are in cents.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     AdminToken
// @Param        request body statistics.StatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespStatistic
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/admin/get_statistic [post]
func ApiGetStatistic(svc StatisticService, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := svc.GetStatistic(c.Request.Context(), &req)
		if err != nil {
			writeError(c, log, "admin_get_statistic_failed", err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, scanner transaction.Scanner, stats StatisticService, log *zap.SugaredLogger) {
	r.POST("/list_transactions", ApiListTransactions(scanner, log))
	r.POST("/list_subscriptions", ApiListSubscriptions(scanner, log))
	r.POST("/get_statistic", ApiGetStatistic(stats, log))
}
