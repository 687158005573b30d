package reconcile

import "github.com/fatflowers/marketpay/pkg/types"

type Result string

const (
	// ResultHandled: the local record now reflects the processor.
	ResultHandled Result = "handled"
	// ResultIgnored: acknowledged without touching any record.
	ResultIgnored Result = "ignored"
	// ResultNotFound: the processor entity has no local record.
	ResultNotFound Result = "not_found"
	ResultFailed   Result = "failed"
)

// Outcome describes what one reconciliation did.
type Outcome struct {
	Result            Result              `json:"result"`
	EventType         string              `json:"event_type,omitempty"`
	ExternalReference string              `json:"external_reference,omitempty"`
	Status            *types.RecordStatus `json:"status,omitempty"`
	// Changed is false when the record already matched the processor.
	Changed bool   `json:"changed"`
	Reason  string `json:"reason,omitempty"`
}
