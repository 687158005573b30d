package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/internal/app/repository/repositorytest"
	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/internal/platform/mercadopago"
	"github.com/fatflowers/marketpay/internal/platform/mercadopago/mercadopagotest"
	"github.com/fatflowers/marketpay/pkg/config"
	"github.com/fatflowers/marketpay/pkg/types"
)

type recorder struct {
	mu      sync.Mutex
	entries []models.PaymentNotificationLog
}

func (r *recorder) Save(_ context.Context, e *models.PaymentNotificationLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
}

func (r *recorder) statuses() []models.PaymentNotificationLogStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.entries, func(e models.PaymentNotificationLog, _ int) models.PaymentNotificationLogStatus { return e.Status })
}

type fixture struct {
	svc    *Service
	client *mercadopagotest.MockClient
	txns   *repositorytest.Transactions
	subs   *repositorytest.Subscriptions
	rec    *recorder
}

const ref = "ORD-1710000000000-1-ABCDEFGH"

func pendingTxn() *models.Transaction {
	return &models.Transaction{
		ExternalReference: ref,
		BuyerID:           "buyer-1",
		Amount:            decimal.NewFromInt(200),
		Currency:          "ARS",
		Status:            types.TransactionStatusPending,
	}
}

func newFixture(mcfg config.MercadoPagoConfig, txns ...*models.Transaction) *fixture {
	f := &fixture{
		client: &mercadopagotest.MockClient{},
		txns:   repositorytest.NewTransactions(txns...),
		subs:   repositorytest.NewSubscriptions(),
		rec:    &recorder{},
	}
	verifier := mercadopago.NewSignatureVerifier(&config.Config{MercadoPago: mcfg})
	f.svc = NewService(zap.NewNop().Sugar(), f.client, verifier, f.txns, f.subs, f.rec)
	return f
}

var skipVerify = config.MercadoPagoConfig{SkipSignatureVerification: true}

func TestApplyPayment_StatusTable(t *testing.T) {
	cases := map[string]types.TransactionStatus{
		"approved":     types.TransactionStatusCompleted,
		"authorized":   types.TransactionStatusPending,
		"in_process":   types.TransactionStatusProcessing,
		"in_mediation": types.TransactionStatusDisputed,
		"rejected":     types.TransactionStatusFailed,
		"cancelled":    types.TransactionStatusCancelled,
		"refunded":     types.TransactionStatusRefunded,
		"charged_back": types.TransactionStatusChargedBack,
		"weird_status": types.TransactionStatusPending,
	}
	for vendor, want := range cases {
		t.Run(vendor, func(t *testing.T) {
			f := newFixture(skipVerify, pendingTxn())
			out, err := f.svc.ApplyPayment(context.Background(), &mercadopago.Payment{ID: 7, Status: vendor, ExternalReference: ref}, types.StatusChangeReasonWebhook)
			require.NoError(t, err)
			require.Equal(t, ResultHandled, out.Result)
			require.Equal(t, want, f.txns.Get(ref).Status)
			got, ok := out.Status.TransactionStatus()
			require.True(t, ok)
			require.Equal(t, want, got)
		})
	}
}

func TestHandleNotification_ApprovedPaymentCompletesTransaction(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	approvedAt := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	f.client.On("GetPayment", mock.Anything, "PAY123").
		Return(&mercadopago.Payment{ID: 123, Status: "approved", StatusDetail: "accredited", ExternalReference: ref, DateApproved: &approvedAt}, nil)

	out, err := f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "PAY123"})
	require.NoError(t, err)
	require.Equal(t, ResultHandled, out.Result)
	require.True(t, out.Changed)

	txn := f.txns.Get(ref)
	require.Equal(t, types.TransactionStatusCompleted, txn.Status)
	require.Equal(t, "123", *txn.VendorPaymentID)
	require.Equal(t, "accredited", txn.VendorStatusDetail)
	require.True(t, approvedAt.Equal(*txn.PaidAt))
	require.Equal(t, []models.PaymentNotificationLogStatus{models.PaymentNotificationLogStatusReceived, models.PaymentNotificationLogStatusHandled}, f.rec.statuses())
}

func TestHandleNotification_DuplicateDeliveryIsIdempotent(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	f.client.On("GetPayment", mock.Anything, "123").
		Return(&mercadopago.Payment{ID: 123, Status: "approved", ExternalReference: ref}, nil)

	n := &Notification{Type: EventTypePayment, DataID: "123"}
	_, err := f.svc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	first := f.txns.Get(ref)

	out, err := f.svc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	require.False(t, out.Changed)
	second := f.txns.Get(ref)

	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.VendorPaymentID, second.VendorPaymentID)
	require.Equal(t, 1, f.txns.Writes)
	require.Len(t, f.txns.Changes, 1)
}

func TestHandleNotification_ConcurrentRedeliveriesConverge(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	f.client.On("GetPayment", mock.Anything, "123").
		Return(&mercadopago.Payment{ID: 123, Status: "approved", ExternalReference: ref}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "123"})
		}()
	}
	wg.Wait()
	require.Equal(t, types.TransactionStatusCompleted, f.txns.Get(ref).Status)
}

func TestHandleNotification_UnknownEventIsAckedWithoutMutation(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())

	out, err := f.svc.HandleNotification(context.Background(), &Notification{Type: "unknown_event", DataID: "1"})
	require.NoError(t, err)
	require.Equal(t, ResultIgnored, out.Result)
	require.Equal(t, types.TransactionStatusPending, f.txns.Get(ref).Status)
	require.Zero(t, f.txns.Writes)
	f.client.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
	require.Equal(t, models.PaymentNotificationLogStatusIgnored, f.rec.statuses()[1])
}

func TestHandleNotification_UnknownReferenceIsAcked(t *testing.T) {
	f := newFixture(skipVerify)
	f.client.On("GetPayment", mock.Anything, "55").
		Return(&mercadopago.Payment{ID: 55, Status: "approved", ExternalReference: "ORD-unknown"}, nil)

	out, err := f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "55"})
	require.NoError(t, err)
	require.Equal(t, ResultNotFound, out.Result)
	require.Zero(t, f.txns.Writes)
}

func TestHandleNotification_PaymentUnknownToProcessorIsAcked(t *testing.T) {
	f := newFixture(skipVerify)
	f.client.On("GetPayment", mock.Anything, "404").
		Return(nil, &mercadopago.ProviderError{Op: "get_payment", Code: mercadopago.ErrorCodeNotFound, StatusCode: 404})

	out, err := f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "404"})
	require.NoError(t, err)
	require.Equal(t, ResultNotFound, out.Result)
}

func TestHandleNotification_ProcessorFailureIsReported(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	f.client.On("GetPayment", mock.Anything, "9").
		Return(nil, &mercadopago.ProviderError{Op: "get_payment", Code: mercadopago.ErrorCodeUnavailable, StatusCode: 503})

	out, err := f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "9"})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrMalformedNotification))
	require.False(t, errors.Is(err, ErrUnverifiedNotification))
	require.Equal(t, ResultFailed, out.Result)
	require.Equal(t, models.PaymentNotificationLogStatusHandleFailed, f.rec.statuses()[1])
}

func TestHandleNotification_Malformed(t *testing.T) {
	f := newFixture(skipVerify)
	for _, n := range []*Notification{nil, {Type: EventTypePayment}, {DataID: "1"}} {
		_, err := f.svc.HandleNotification(context.Background(), n)
		require.ErrorIs(t, err, ErrMalformedNotification)
	}
	require.Empty(t, f.rec.statuses())
}

func TestHandleNotification_SignatureFailsClosed(t *testing.T) {
	secret := "whsec"
	f := newFixture(config.MercadoPagoConfig{WebhookSecret: secret}, pendingTxn())

	_, err := f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "123", Signature: "ts=1,v1=deadbeef", RequestID: "r"})
	require.ErrorIs(t, err, ErrUnverifiedNotification)
	f.client.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)

	f.client.On("GetPayment", mock.Anything, "123").Return(&mercadopago.Payment{ID: 123, Status: "rejected", ExternalReference: ref}, nil)
	sig := mercadopago.Sign([]byte(secret), "id:123;request-id:r;ts:1;")
	_, err = f.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "123", Signature: "ts=1,v1=" + sig, RequestID: "r"})
	require.NoError(t, err)
	require.Equal(t, types.TransactionStatusFailed, f.txns.Get(ref).Status)

	noSecret := newFixture(config.MercadoPagoConfig{}, pendingTxn())
	_, err = noSecret.svc.HandleNotification(context.Background(), &Notification{Type: EventTypePayment, DataID: "123", Signature: "ts=1,v1=" + sig, RequestID: "r"})
	require.ErrorIs(t, err, ErrUnverifiedNotification)
}

func TestApplyPayment_FallsBackToVendorPaymentID(t *testing.T) {
	txn := pendingTxn()
	txn.VendorPaymentID = lo.ToPtr("777")
	f := newFixture(skipVerify, txn)

	out, err := f.svc.ApplyPayment(context.Background(), &mercadopago.Payment{ID: 777, Status: "refunded"}, types.StatusChangeReasonWebhook)
	require.NoError(t, err)
	require.Equal(t, ref, out.ExternalReference)
	require.Equal(t, types.TransactionStatusRefunded, f.txns.Get(ref).Status)
}

func TestApplyPayment_UnexpectedTransitionStillApplied(t *testing.T) {
	txn := pendingTxn()
	txn.Status = types.TransactionStatusFailed
	f := newFixture(skipVerify, txn)

	_, err := f.svc.ApplyPayment(context.Background(), &mercadopago.Payment{ID: 8, Status: "approved", ExternalReference: ref}, types.StatusChangeReasonWebhook)
	require.NoError(t, err)
	require.Equal(t, types.TransactionStatusCompleted, f.txns.Get(ref).Status)
}

func TestApplyPayment_SupersededAttemptDoesNotUndoCompletion(t *testing.T) {
	txn := pendingTxn()
	txn.Status = types.TransactionStatusCompleted
	txn.VendorPaymentID = lo.ToPtr("2")
	txn.VendorStatus = "approved"
	f := newFixture(skipVerify, txn)

	out, err := f.svc.ApplyPayment(context.Background(), &mercadopago.Payment{ID: 1, Status: "rejected", ExternalReference: ref}, types.StatusChangeReasonWebhook)
	require.NoError(t, err)
	require.Equal(t, ResultIgnored, out.Result)
	require.Equal(t, types.TransactionStatusCompleted, f.txns.Get(ref).Status)
	require.Zero(t, f.txns.Writes)
}

func TestApplyPayment_PersistFailureSurfaces(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	f.txns.FailWrites = true
	_, err := f.svc.ApplyPayment(context.Background(), &mercadopago.Payment{ID: 1, Status: "approved", ExternalReference: ref}, types.StatusChangeReasonWebhook)
	require.ErrorIs(t, err, repositorytest.ErrInjected)
}

func TestHandleNotification_PreapprovalActivatesSubscription(t *testing.T) {
	f := newFixture(skipVerify)
	subRef := "SUB-1710000000000-1-ABCDEFGH"
	require.NoError(t, f.subs.Create(context.Background(), &models.Subscription{
		ExternalReference:    subRef,
		BuyerID:              "buyer-1",
		PlanID:               "pro",
		Status:               types.SubscriptionStatusPending,
		VendorSubscriptionID: lo.ToPtr("pre-1"),
	}))
	f.subs.Writes = 0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	next := start.AddDate(0, 1, 0)
	f.client.On("GetPreapproval", mock.Anything, "pre-1").Return(&mercadopago.Preapproval{
		ID:                "pre-1",
		Status:            "authorized",
		ExternalReference: subRef,
		AutoRecurring:     &mercadopago.AutoRecurring{StartDate: &start, EndDate: &end},
		NextPaymentDate:   &next,
	}, nil)

	n := &Notification{Type: EventTypePreapproval, DataID: "pre-1"}
	out, err := f.svc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	got, ok := out.Status.SubscriptionStatus()
	require.True(t, ok)
	require.Equal(t, types.SubscriptionStatusActive, got)

	sub := f.subs.Get(subRef)
	require.Equal(t, types.SubscriptionStatusActive, sub.Status)
	require.True(t, start.Equal(*sub.StartAt))
	require.True(t, end.Equal(*sub.EndAt))
	require.True(t, next.Equal(*sub.NextPaymentAt))

	_, err = f.svc.HandleNotification(context.Background(), n)
	require.NoError(t, err)
	require.Equal(t, 1, f.subs.Writes)
	require.Len(t, f.subs.Changes, 1)
}

func TestApplyPreapproval_StatusTable(t *testing.T) {
	cases := map[string]types.SubscriptionStatus{
		"authorized": types.SubscriptionStatusActive,
		"paused":     types.SubscriptionStatusPaused,
		"cancelled":  types.SubscriptionStatusCancelled,
		"pending":    types.SubscriptionStatusPending,
		"unheard_of": types.SubscriptionStatusPending,
	}
	for vendor, want := range cases {
		t.Run(vendor, func(t *testing.T) {
			f := newFixture(skipVerify)
			f.subs = repositorytest.NewSubscriptions(&models.Subscription{ExternalReference: "SUB-1", Status: types.SubscriptionStatusPending})
			f.svc.subs = f.subs
			_, err := f.svc.ApplyPreapproval(context.Background(), &mercadopago.Preapproval{ID: "p", Status: vendor, ExternalReference: "SUB-1"}, types.StatusChangeReasonWebhook)
			require.NoError(t, err)
			require.Equal(t, want, f.subs.Get("SUB-1").Status)
		})
	}
}

func TestSyncTransaction_AppliesLatestPayment(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	f.client.On("SearchPaymentsByExternalReference", mock.Anything, ref).Return([]*mercadopago.Payment{
		{ID: 1, Status: "rejected", DateCreated: &older},
		{ID: 2, Status: "approved", DateCreated: &newer},
	}, nil)

	out, err := f.svc.SyncTransaction(context.Background(), f.txns.Get(ref), types.StatusChangeReasonManualSync)
	require.NoError(t, err)
	require.Equal(t, ResultHandled, out.Result)
	txn := f.txns.Get(ref)
	require.Equal(t, types.TransactionStatusCompleted, txn.Status)
	require.Equal(t, "2", *txn.VendorPaymentID)
	require.Equal(t, types.StatusChangeReasonManualSync, f.txns.Changes[0].Reason)
}

func TestSyncTransaction_NoPaymentsYet(t *testing.T) {
	f := newFixture(skipVerify, pendingTxn())
	f.client.On("SearchPaymentsByExternalReference", mock.Anything, ref).Return([]*mercadopago.Payment{}, nil)

	out, err := f.svc.SyncTransaction(context.Background(), f.txns.Get(ref), types.StatusChangeReasonPoller)
	require.NoError(t, err)
	require.Equal(t, ResultIgnored, out.Result)
	require.Zero(t, f.txns.Writes)
}
