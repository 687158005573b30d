package types

// TransactionStatus is the vendor-agnostic lifecycle status of a checkout attempt.
type TransactionStatus string

const (
	TransactionStatusPending     TransactionStatus = "pending"
	TransactionStatusProcessing  TransactionStatus = "processing"
	TransactionStatusCompleted   TransactionStatus = "completed"
	TransactionStatusFailed      TransactionStatus = "failed"
	TransactionStatusCancelled   TransactionStatus = "cancelled"
	TransactionStatusDisputed    TransactionStatus = "disputed"
	TransactionStatusRefunded    TransactionStatus = "refunded"
	TransactionStatusChargedBack TransactionStatus = "charged_back"
)

// SubscriptionStatus is the vendor-agnostic lifecycle status of a recurring agreement.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

var paymentStatusMapping = map[string]TransactionStatus{
	"approved":     TransactionStatusCompleted,
	"authorized":   TransactionStatusPending,
	"in_process":   TransactionStatusProcessing,
	"in_mediation": TransactionStatusDisputed,
	"rejected":     TransactionStatusFailed,
	"cancelled":    TransactionStatusCancelled,
	"refunded":     TransactionStatusRefunded,
	"charged_back": TransactionStatusChargedBack,
}

var subscriptionStatusMapping = map[string]SubscriptionStatus{
	"authorized": SubscriptionStatusActive,
	"paused":     SubscriptionStatusPaused,
	"cancelled":  SubscriptionStatusCancelled,
	"pending":    SubscriptionStatusPending,
}

// MapPaymentStatus maps a processor payment status onto TransactionStatus.
// Unknown values map to pending.
func MapPaymentStatus(vendorStatus string) TransactionStatus {
	if s, ok := paymentStatusMapping[vendorStatus]; ok {
		return s
	}
	return TransactionStatusPending
}

// MapSubscriptionStatus maps a processor preapproval status onto SubscriptionStatus.
// Unknown values map to pending.
func MapSubscriptionStatus(vendorStatus string) SubscriptionStatus {
	if s, ok := subscriptionStatusMapping[vendorStatus]; ok {
		return s
	}
	return SubscriptionStatusPending
}

// CanTransition reports whether from -> to follows the transaction lifecycle.
// Staying in the same status is always allowed.
func (from TransactionStatus) CanTransition(to TransactionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case TransactionStatusPending:
		return true
	case TransactionStatusProcessing:
		// processing is not terminal in practice: the processor settles it later
		return to != TransactionStatusPending
	case TransactionStatusDisputed:
		return to == TransactionStatusRefunded || to == TransactionStatusChargedBack
	default:
		return false
	}
}

// IsTerminal reports whether the transaction has settled and clients can stop polling.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusProcessing, TransactionStatusDisputed:
		return false
	default:
		return true
	}
}

// CanTransition reports whether from -> to follows the subscription lifecycle.
func (from SubscriptionStatus) CanTransition(to SubscriptionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case SubscriptionStatusPending:
		return true
	case SubscriptionStatusActive, SubscriptionStatusPaused:
		return to == SubscriptionStatusActive || to == SubscriptionStatusPaused || to == SubscriptionStatusCancelled
	default:
		return false
	}
}

type StatusKind string

const (
	StatusKindPayment      StatusKind = "payment"
	StatusKindSubscription StatusKind = "subscription"
)

// RecordStatus is a status tagged with the kind of record it belongs to.
// Build it with PaymentRecordStatus or SubscriptionRecordStatus.
type RecordStatus struct {
	Kind   StatusKind `json:"kind"`
	Status string     `json:"status"`
}

func PaymentRecordStatus(s TransactionStatus) RecordStatus {
	return RecordStatus{Kind: StatusKindPayment, Status: string(s)}
}

func SubscriptionRecordStatus(s SubscriptionStatus) RecordStatus {
	return RecordStatus{Kind: StatusKindSubscription, Status: string(s)}
}

func (r RecordStatus) TransactionStatus() (TransactionStatus, bool) {
	if r.Kind != StatusKindPayment {
		return "", false
	}
	return TransactionStatus(r.Status), true
}

func (r RecordStatus) SubscriptionStatus() (SubscriptionStatus, bool) {
	if r.Kind != StatusKindSubscription {
		return "", false
	}
	return SubscriptionStatus(r.Status), true
}

type StatusChangeReason string

const (
	StatusChangeReasonWebhook    StatusChangeReason = "webhook"
	StatusChangeReasonPoller     StatusChangeReason = "poller"
	StatusChangeReasonManualSync StatusChangeReason = "manual_sync"
)
