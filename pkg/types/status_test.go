package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPaymentStatus_Table(t *testing.T) {
	cases := map[string]TransactionStatus{
		"approved":     TransactionStatusCompleted,
		"authorized":   TransactionStatusPending,
		"in_process":   TransactionStatusProcessing,
		"in_mediation": TransactionStatusDisputed,
		"rejected":     TransactionStatusFailed,
		"cancelled":    TransactionStatusCancelled,
		"refunded":     TransactionStatusRefunded,
		"charged_back": TransactionStatusChargedBack,
	}
	for vendor, want := range cases {
		require.Equal(t, want, MapPaymentStatus(vendor), vendor)
	}
}

func TestMapPaymentStatus_UnknownIsPending(t *testing.T) {
	for _, vendor := range []string{"", "APPROVED", "pending_waiting_payment", "whatever"} {
		require.Equal(t, TransactionStatusPending, MapPaymentStatus(vendor), vendor)
	}
}

func TestMapSubscriptionStatus_Table(t *testing.T) {
	require.Equal(t, SubscriptionStatusActive, MapSubscriptionStatus("authorized"))
	require.Equal(t, SubscriptionStatusPaused, MapSubscriptionStatus("paused"))
	require.Equal(t, SubscriptionStatusCancelled, MapSubscriptionStatus("cancelled"))
	require.Equal(t, SubscriptionStatusPending, MapSubscriptionStatus("pending"))
	require.Equal(t, SubscriptionStatusPending, MapSubscriptionStatus("finished"))
}

func TestTransactionStatus_CanTransition(t *testing.T) {
	require.True(t, TransactionStatusPending.CanTransition(TransactionStatusCompleted))
	require.True(t, TransactionStatusDisputed.CanTransition(TransactionStatusRefunded))
	require.True(t, TransactionStatusDisputed.CanTransition(TransactionStatusChargedBack))
	require.False(t, TransactionStatusDisputed.CanTransition(TransactionStatusCompleted))
	require.False(t, TransactionStatusCompleted.CanTransition(TransactionStatusPending))
	require.True(t, TransactionStatusCompleted.CanTransition(TransactionStatusCompleted))
	require.False(t, TransactionStatusRefunded.CanTransition(TransactionStatusChargedBack))
}

func TestSubscriptionStatus_CanTransition(t *testing.T) {
	require.True(t, SubscriptionStatusActive.CanTransition(SubscriptionStatusPaused))
	require.True(t, SubscriptionStatusPaused.CanTransition(SubscriptionStatusActive))
	require.True(t, SubscriptionStatusPaused.CanTransition(SubscriptionStatusCancelled))
	require.False(t, SubscriptionStatusCancelled.CanTransition(SubscriptionStatusActive))
	require.False(t, SubscriptionStatusActive.CanTransition(SubscriptionStatusPending))
}

func TestRecordStatus_KindGuardsAccessors(t *testing.T) {
	rs := PaymentRecordStatus(TransactionStatusRefunded)
	s, ok := rs.TransactionStatus()
	require.True(t, ok)
	require.Equal(t, TransactionStatusRefunded, s)
	_, ok = rs.SubscriptionStatus()
	require.False(t, ok)

	sub := SubscriptionRecordStatus(SubscriptionStatusPaused)
	require.Equal(t, StatusKindSubscription, sub.Kind)
	_, ok = sub.TransactionStatus()
	require.False(t, ok)
}
