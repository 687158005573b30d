package status

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/internal/app/repository"
	"github.com/fatflowers/marketpay/internal/app/service/reconcile"
	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/types"
)

// View is the caller-facing status of a transaction or subscription. Exactly one of
// Transaction and Subscription is set, matching Status.Kind.
type View struct {
	ExternalReference string               `json:"external_reference"`
	Status            types.RecordStatus   `json:"status"`
	Transaction       *models.Transaction  `json:"transaction,omitempty"`
	Subscription      *models.Subscription `json:"subscription,omitempty"`
	// Final tells clients polling a transaction that its status will not change again.
	Final bool `json:"final"`
	// Entitled is set for subscriptions that currently grant access.
	Entitled bool `json:"entitled"`
	// Sync is set by Sync only.
	Sync *reconcile.Outcome `json:"sync,omitempty"`
}

type Service struct {
	log        *zap.SugaredLogger
	txns       repository.TransactionRepository
	subs       repository.SubscriptionRepository
	reconciler *reconcile.Service
}

func NewService(log *zap.SugaredLogger, txns repository.TransactionRepository, subs repository.SubscriptionRepository, reconciler *reconcile.Service) *Service {
	return &Service{log: log, txns: txns, subs: subs, reconciler: reconciler}
}

// GetByExternalReference returns the record for ref if userID owns it.
func (s *Service) GetByExternalReference(ctx context.Context, userID, ref string) (*View, error) {
	txn, sub, err := s.load(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	return newView(ref, txn, sub), nil
}

// Sync asks the processor for the current state of ref, applies it and returns the result.
func (s *Service) Sync(ctx context.Context, userID, ref string) (*View, error) {
	txn, sub, err := s.load(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	var out *reconcile.Outcome
	if txn != nil {
		out, err = s.reconciler.SyncTransaction(ctx, txn, types.StatusChangeReasonManualSync)
	} else {
		out, err = s.reconciler.SyncSubscription(ctx, sub, types.StatusChangeReasonManualSync)
	}
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("manual_sync_failed", "external_reference", ref, "err", err)
		return nil, apperr.Upstream(err, "failed to sync with payment processor")
	}

	// re-read so the view carries what was persisted
	txn, sub, err = s.load(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	v := newView(ref, txn, sub)
	v.Sync = out
	return v, nil
}

func (s *Service) load(ctx context.Context, userID, ref string) (*models.Transaction, *models.Subscription, error) {
	if userID == "" {
		return nil, nil, apperr.Auth("authentication required")
	}
	if ref == "" {
		return nil, nil, apperr.Validation("external_reference is required")
	}

	txn, err := s.txns.GetByExternalReference(ctx, ref)
	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to load transaction")
	}
	if txn != nil {
		if !txn.IsOwnedBy(userID) {
			return nil, nil, apperr.Forbidden("not the owner of this transaction")
		}
		return txn, nil, nil
	}

	sub, err := s.subs.GetByExternalReference(ctx, ref)
	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to load subscription")
	}
	if sub == nil {
		return nil, nil, apperr.NotFound("no record for %q", ref)
	}
	if !sub.IsOwnedBy(userID) {
		return nil, nil, apperr.Forbidden("not the owner of this subscription")
	}
	return nil, sub, nil
}

func newView(ref string, txn *models.Transaction, sub *models.Subscription) *View {
	if txn != nil {
		return &View{ExternalReference: ref, Status: types.PaymentRecordStatus(txn.Status), Transaction: txn, Final: txn.Status.IsTerminal()}
	}
	return &View{ExternalReference: ref, Status: types.SubscriptionRecordStatus(sub.Status), Subscription: sub, Entitled: sub.Valid(time.Now())}
}
