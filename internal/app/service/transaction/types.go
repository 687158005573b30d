package transaction

import (
	"context"

	models "github.com/fatflowers/marketpay/internal/models"
	types "github.com/fatflowers/marketpay/pkg/types"
)

// Scanner lists transactions and subscriptions for the admin pages.
type Scanner interface {
	ScanTransactions(ctx context.Context, req *ScanRequest) (*ScanTransactionsResponse, error)
	ScanSubscriptions(ctx context.Context, req *ScanRequest) (*ScanSubscriptionsResponse, error)
}

// ScanRequest is a filtered, paginated listing request.
type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanTransactionsResponse struct {
	Items []*models.Transaction `json:"items"`
	Total int64                 `json:"total"`
}

type ScanSubscriptionsResponse struct {
	Items []*models.Subscription `json:"items"`
	Total int64                  `json:"total"`
}

var transactionColumns = []string{
	"id", "external_reference", "buyer_id", "seller_id", "amount", "currency", "status",
	"vendor_preference_id", "vendor_payment_id", "vendor_status", "paid_at", "created_at", "updated_at",
}

var subscriptionColumns = []string{
	"id", "external_reference", "buyer_id", "plan_id", "payer_email", "amount", "currency", "status",
	"vendor_subscription_id", "vendor_status", "start_at", "end_at", "next_payment_at", "created_at", "updated_at",
}
