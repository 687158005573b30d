package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/marketpay/internal/app/repository"
	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/internal/platform/mercadopago"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/metrics"
	"github.com/fatflowers/marketpay/pkg/types"
)

const providerID = "mercadopago"

// NotificationRecorder stores webhook deliveries for audit.
type NotificationRecorder interface {
	Save(ctx context.Context, entry *models.PaymentNotificationLog)
}

// Service applies processor state to local transactions and subscriptions. Every update is
// a function of the processor payload only, so redeliveries and concurrent deliveries converge.
type Service struct {
	log      *zap.SugaredLogger
	client   mercadopago.Client
	verifier *mercadopago.SignatureVerifier
	txns     repository.TransactionRepository
	subs     repository.SubscriptionRepository
	notifs   NotificationRecorder
}

func NewService(log *zap.SugaredLogger, client mercadopago.Client, verifier *mercadopago.SignatureVerifier, txns repository.TransactionRepository, subs repository.SubscriptionRepository, notifs NotificationRecorder) *Service {
	return &Service{log: log, client: client, verifier: verifier, txns: txns, subs: subs, notifs: notifs}
}

// HandleNotification validates, authenticates and dispatches one webhook delivery.
// Only ErrMalformedNotification and ErrUnverifiedNotification should reach the processor
// as failures; any other error is a processing error the caller logs and acknowledges.
func (s *Service) HandleNotification(ctx context.Context, n *Notification) (out *Outcome, resErr error) {
	if n == nil || n.Type == "" || n.DataID == "" {
		eventType := ""
		if n != nil {
			eventType = n.Type
		}
		metrics.ObserveWebhook(eventType, "malformed")
		return nil, fmt.Errorf("%w: type and data.id are required", ErrMalformedNotification)
	}
	log := logctx.FromCtx(ctx, s.log).With("event_type", n.Type, "data_id", n.DataID)

	if err := s.verifier.Verify(mercadopago.SignedRequest{Signature: n.Signature, RequestID: n.RequestID, DataID: n.DataID}); err != nil {
		metrics.ObserveWebhook(n.Type, "unverified")
		log.Warnw("webhook_unverified", "err", err, "request_id", n.RequestID)
		return nil, fmt.Errorf("%w: %w", ErrUnverifiedNotification, err)
	}

	entry := models.PaymentNotificationLog{
		ProviderID:       providerID,
		EventType:        n.Type,
		Action:           n.Action,
		VendorID:         n.DataID,
		TraceID:          logctx.TraceID(ctx),
		NotificationTime: time.Now(),
		Data:             rawJSON(n.Raw),
		Status:           models.PaymentNotificationLogStatusReceived,
	}
	// Save owns what it is given; keep entry as the template for the final row
	received := entry
	s.notifs.Save(ctx, &received)

	defer func() {
		if out == nil {
			out = &Outcome{Result: ResultFailed}
		}
		out.EventType = n.Type
		if resErr != nil {
			out.Result = ResultFailed
		}
		metrics.ObserveWebhook(n.Type, string(out.Result))
		s.notifs.Save(ctx, finishedEntry(entry, out, resErr))
		log.Infow("webhook_processed", "result", out.Result, "external_reference", out.ExternalReference, "changed", out.Changed, "err", resErr)
	}()

	switch n.Type {
	case EventTypePayment:
		return s.ReconcilePayment(ctx, n.DataID, types.StatusChangeReasonWebhook)
	case EventTypePreapproval:
		return s.ReconcilePreapproval(ctx, n.DataID, types.StatusChangeReasonWebhook)
	default:
		// acked so the processor stops redelivering
		return &Outcome{Result: ResultIgnored, Reason: "unsupported event type"}, nil
	}
}

func finishedEntry(entry models.PaymentNotificationLog, out *Outcome, resErr error) *models.PaymentNotificationLog {
	entry.NotificationTime = time.Now()
	entry.ExternalReference = lo.EmptyableToPtr(out.ExternalReference)
	switch {
	case resErr != nil:
		entry.Status = models.PaymentNotificationLogStatusHandleFailed
	case out.Result == ResultHandled:
		entry.Status = models.PaymentNotificationLogStatusHandled
	default:
		entry.Status = models.PaymentNotificationLogStatusIgnored
	}
	res := map[string]any{"outcome": out}
	if resErr != nil {
		res["error"] = resErr.Error()
	}
	b, _ := json.Marshal(res)
	j := datatypes.JSON(b)
	entry.Result = &j
	return &entry
}

func rawJSON(b []byte) datatypes.JSON {
	if len(b) == 0 || !json.Valid(b) {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// ReconcilePayment fetches a payment from the processor and applies it.
func (s *Service) ReconcilePayment(ctx context.Context, paymentID string, reason types.StatusChangeReason) (*Outcome, error) {
	p, err := s.client.GetPayment(ctx, paymentID)
	if err != nil {
		if mercadopago.IsNotFound(err) {
			logctx.FromCtx(ctx, s.log).Warnw("payment_not_found_at_processor", "payment_id", paymentID)
			return &Outcome{Result: ResultNotFound, Reason: "unknown payment id"}, nil
		}
		return nil, fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}
	return s.ApplyPayment(ctx, p, reason)
}

// ApplyPayment maps a processor payment onto its local transaction. Unknown references
// are reported as ResultNotFound, not as an error.
func (s *Service) ApplyPayment(ctx context.Context, p *mercadopago.Payment, reason types.StatusChangeReason) (*Outcome, error) {
	if p == nil {
		return nil, errors.New("nil payment")
	}
	paymentID := p.IDString()
	log := logctx.FromCtx(ctx, s.log).With("payment_id", paymentID, "external_reference", p.ExternalReference)

	txn, err := s.findTransaction(ctx, p.ExternalReference, paymentID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		log.Warnw("transaction_not_found", "vendor_status", p.Status)
		return &Outcome{Result: ResultNotFound, ExternalReference: p.ExternalReference, Reason: "no local transaction"}, nil
	}

	next := types.MapPaymentStatus(p.Status)
	out := &Outcome{Result: ResultHandled, ExternalReference: txn.ExternalReference}

	// The one place the update reads local state instead of only the vendor payload: a
	// late notification for an earlier attempt must not undo a completed payment. Repeated
	// deliveries still converge, so reconciliation stays idempotent.
	if txn.Status == types.TransactionStatusCompleted && next != types.TransactionStatusCompleted &&
		txn.VendorPaymentID != nil && paymentID != "" && *txn.VendorPaymentID != paymentID {
		log.Infow("superseded_payment_ignored", "recorded_payment_id", *txn.VendorPaymentID, "vendor_status", p.Status)
		out.Result = ResultIgnored
		out.Reason = "superseded payment attempt"
		out.Status = lo.ToPtr(types.PaymentRecordStatus(txn.Status))
		return out, nil
	}

	before := *txn
	if !before.Status.CanTransition(next) {
		// the processor is the source of truth; apply and flag it
		log.Warnw("unexpected_status_transition", "from", before.Status, "to", next, "vendor_status", p.Status)
	}
	txn.Status = next
	if paymentID != "" {
		txn.VendorPaymentID = lo.ToPtr(paymentID)
	}
	txn.VendorStatus = p.Status
	txn.VendorStatusDetail = p.StatusDetail
	if p.DateApproved != nil {
		txn.PaidAt = p.DateApproved
	}
	out.Status = lo.ToPtr(types.PaymentRecordStatus(txn.Status))

	if !transactionChanged(&before, txn) {
		return out, nil
	}
	if err := s.txns.Update(ctx, &before, txn, reason); err != nil {
		log.Errorw("update_transaction_failed", "err", err)
		return nil, err
	}
	out.Changed = true
	log.Infow("transaction_reconciled", "from", before.Status, "to", txn.Status, "vendor_status", p.Status, "reason", reason)
	return out, nil
}

func (s *Service) findTransaction(ctx context.Context, ref, paymentID string) (*models.Transaction, error) {
	if ref != "" {
		txn, err := s.txns.GetByExternalReference(ctx, ref)
		if err != nil || txn != nil {
			return txn, err
		}
	}
	if paymentID != "" {
		return s.txns.GetByVendorPaymentID(ctx, paymentID)
	}
	return nil, nil
}

func transactionChanged(a, b *models.Transaction) bool {
	return a.Status != b.Status ||
		lo.FromPtr(a.VendorPaymentID) != lo.FromPtr(b.VendorPaymentID) ||
		a.VendorStatus != b.VendorStatus ||
		a.VendorStatusDetail != b.VendorStatusDetail ||
		!timePtrEqual(a.PaidAt, b.PaidAt)
}

// ReconcilePreapproval fetches a preapproval from the processor and applies it.
func (s *Service) ReconcilePreapproval(ctx context.Context, preapprovalID string, reason types.StatusChangeReason) (*Outcome, error) {
	pre, err := s.client.GetPreapproval(ctx, preapprovalID)
	if err != nil {
		if mercadopago.IsNotFound(err) {
			logctx.FromCtx(ctx, s.log).Warnw("preapproval_not_found_at_processor", "preapproval_id", preapprovalID)
			return &Outcome{Result: ResultNotFound, Reason: "unknown preapproval id"}, nil
		}
		return nil, fmt.Errorf("failed to fetch preapproval %s: %w", preapprovalID, err)
	}
	return s.ApplyPreapproval(ctx, pre, reason)
}

// ApplyPreapproval maps a processor preapproval onto its local subscription.
func (s *Service) ApplyPreapproval(ctx context.Context, pre *mercadopago.Preapproval, reason types.StatusChangeReason) (*Outcome, error) {
	if pre == nil {
		return nil, errors.New("nil preapproval")
	}
	log := logctx.FromCtx(ctx, s.log).With("preapproval_id", pre.ID, "external_reference", pre.ExternalReference)

	sub, err := s.findSubscription(ctx, pre.ExternalReference, pre.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		log.Warnw("subscription_not_found", "vendor_status", pre.Status)
		return &Outcome{Result: ResultNotFound, ExternalReference: pre.ExternalReference, Reason: "no local subscription"}, nil
	}

	before := *sub
	next := types.MapSubscriptionStatus(pre.Status)
	if !before.Status.CanTransition(next) {
		log.Warnw("unexpected_status_transition", "from", before.Status, "to", next, "vendor_status", pre.Status)
	}
	sub.Status = next
	if pre.ID != "" {
		sub.VendorSubscriptionID = lo.ToPtr(pre.ID)
	}
	sub.VendorStatus = pre.Status
	if ar := pre.AutoRecurring; ar != nil {
		if ar.StartDate != nil {
			sub.StartAt = ar.StartDate
		}
		if ar.EndDate != nil {
			sub.EndAt = ar.EndDate
		}
	}
	if pre.NextPaymentDate != nil {
		sub.NextPaymentAt = pre.NextPaymentDate
	}

	out := &Outcome{
		Result:            ResultHandled,
		ExternalReference: sub.ExternalReference,
		Status:            lo.ToPtr(types.SubscriptionRecordStatus(sub.Status)),
	}
	if !subscriptionChanged(&before, sub) {
		return out, nil
	}
	if err := s.subs.Update(ctx, &before, sub, reason); err != nil {
		log.Errorw("update_subscription_failed", "err", err)
		return nil, err
	}
	out.Changed = true
	log.Infow("subscription_reconciled", "from", before.Status, "to", sub.Status, "vendor_status", pre.Status, "reason", reason)
	return out, nil
}

func (s *Service) findSubscription(ctx context.Context, ref, vendorID string) (*models.Subscription, error) {
	if ref != "" {
		sub, err := s.subs.GetByExternalReference(ctx, ref)
		if err != nil || sub != nil {
			return sub, err
		}
	}
	if vendorID != "" {
		return s.subs.GetByVendorSubscriptionID(ctx, vendorID)
	}
	return nil, nil
}

func subscriptionChanged(a, b *models.Subscription) bool {
	return a.Status != b.Status ||
		lo.FromPtr(a.VendorSubscriptionID) != lo.FromPtr(b.VendorSubscriptionID) ||
		a.VendorStatus != b.VendorStatus ||
		!timePtrEqual(a.StartAt, b.StartAt) ||
		!timePtrEqual(a.EndAt, b.EndAt) ||
		!timePtrEqual(a.NextPaymentAt, b.NextPaymentAt)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
