package reconcile

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/internal/platform/mercadopago"
	"github.com/fatflowers/marketpay/pkg/types"
)

// SyncTransaction polls the processor for txn's payments and applies the latest one.
// It is the fallback for notifications that never arrived.
func (s *Service) SyncTransaction(ctx context.Context, txn *models.Transaction, reason types.StatusChangeReason) (*Outcome, error) {
	payments, err := s.client.SearchPaymentsByExternalReference(ctx, txn.ExternalReference)
	if err != nil {
		return nil, fmt.Errorf("failed to search payments for %s: %w", txn.ExternalReference, err)
	}
	latest := latestPayment(payments)
	if latest == nil {
		return &Outcome{
			Result:            ResultIgnored,
			ExternalReference: txn.ExternalReference,
			Status:            lo.ToPtr(types.PaymentRecordStatus(txn.Status)),
			Reason:            "no payment yet",
		}, nil
	}
	if latest.ExternalReference == "" {
		latest.ExternalReference = txn.ExternalReference
	}
	return s.ApplyPayment(ctx, latest, reason)
}

// SyncSubscription re-fetches sub's preapproval and applies it.
func (s *Service) SyncSubscription(ctx context.Context, sub *models.Subscription, reason types.StatusChangeReason) (*Outcome, error) {
	if sub.VendorSubscriptionID == nil || *sub.VendorSubscriptionID == "" {
		return &Outcome{
			Result:            ResultIgnored,
			ExternalReference: sub.ExternalReference,
			Status:            lo.ToPtr(types.SubscriptionRecordStatus(sub.Status)),
			Reason:            "no vendor subscription id",
		}, nil
	}
	pre, err := s.client.GetPreapproval(ctx, *sub.VendorSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preapproval for %s: %w", sub.ExternalReference, err)
	}
	if pre.ExternalReference == "" {
		pre.ExternalReference = sub.ExternalReference
	}
	return s.ApplyPreapproval(ctx, pre, reason)
}

// latestPayment picks the most recently created payment; the first wins on ties.
func latestPayment(payments []*mercadopago.Payment) *mercadopago.Payment {
	var latest *mercadopago.Payment
	for _, p := range payments {
		if p == nil {
			continue
		}
		if latest == nil || (p.DateCreated != nil && (latest.DateCreated == nil || p.DateCreated.After(*latest.DateCreated))) {
			latest = p
		}
	}
	return latest
}
