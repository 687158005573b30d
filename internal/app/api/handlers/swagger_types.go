package handlers

import (
	"github.com/fatflowers/marketpay/internal/app/service/checkout"
	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/internal/app/service/statistics"
	"github.com/fatflowers/marketpay/internal/app/service/status"
	"github.com/fatflowers/marketpay/internal/app/service/transaction"
	"github.com/fatflowers/marketpay/pkg/response"
)

// RespError is the envelope returned on failure; Data carries the message.
type RespError struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    string                   `json:"data"`
}

type RespCheckout struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    checkout.CheckoutResult  `json:"data"`
}

type RespSubscription struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    checkout.SubscriptionResult `json:"data"`
}

type RespStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    status.View              `json:"data"`
}

type RespOutcome struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reconcile.Outcome        `json:"data"`
}

type RespListTransactions struct {
	Code    response.APIResponseCode             `json:"code"`
	Message string                               `json:"message"`
	Data    transaction.ScanTransactionsResponse `json:"data"`
}

type RespListSubscriptions struct {
	Code    response.APIResponseCode              `json:"code"`
	Message string                                `json:"message"`
	Data    transaction.ScanSubscriptionsResponse `json:"data"`
}

type RespStatistic struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}

// SwaggerNotification documents the webhook body.
type SwaggerNotification struct {
	Type   string `json:"type" example:"payment"`
	Action string `json:"action" example:"payment.updated"`
	Data   struct {
		ID string `json:"id" example:"123456789"`
	} `json:"data"`
}
