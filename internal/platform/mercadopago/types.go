package mercadopago

import (
	"strconv"
	"time"
)

type PreferenceItem struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	PictureURL  string  `json:"picture_url,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	UnitPrice   float64 `json:"unit_price"`
}

type Payer struct {
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email,omitempty"`
}

type BackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type PreferenceRequest struct {
	Items             []PreferenceItem  `json:"items"`
	Payer             *Payer            `json:"payer,omitempty"`
	BackURLs          *BackURLs         `json:"back_urls,omitempty"`
	AutoReturn        string            `json:"auto_return,omitempty"`
	NotificationURL   string            `json:"notification_url,omitempty"`
	ExternalReference string            `json:"external_reference"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Preference is the processor's one-off checkout session.
type Preference struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
	ExternalReference string `json:"external_reference"`
}

type AutoRecurring struct {
	Frequency         int        `json:"frequency"`
	FrequencyType     string     `json:"frequency_type"`
	TransactionAmount float64    `json:"transaction_amount"`
	CurrencyID        string     `json:"currency_id"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
}

type PreapprovalRequest struct {
	Reason            string        `json:"reason"`
	ExternalReference string        `json:"external_reference"`
	PayerEmail        string        `json:"payer_email"`
	AutoRecurring     AutoRecurring `json:"auto_recurring"`
	BackURL           string        `json:"back_url"`
	NotificationURL   string        `json:"notification_url,omitempty"`
	Status            string        `json:"status,omitempty"`
}

// Preapproval is the processor's recurring subscription agreement.
type Preapproval struct {
	ID                string         `json:"id"`
	Status            string         `json:"status"`
	Reason            string         `json:"reason"`
	ExternalReference string         `json:"external_reference"`
	PayerEmail        string         `json:"payer_email"`
	InitPoint         string         `json:"init_point"`
	SandboxInitPoint  string         `json:"sandbox_init_point"`
	AutoRecurring     *AutoRecurring `json:"auto_recurring,omitempty"`
	NextPaymentDate   *time.Time     `json:"next_payment_date,omitempty"`
	DateCreated       *time.Time     `json:"date_created,omitempty"`
	LastModified      *time.Time     `json:"last_modified,omitempty"`
}

// Payment is a processor payment as returned by /v1/payments.
type Payment struct {
	ID                int64      `json:"id"`
	Status            string     `json:"status"`
	StatusDetail      string     `json:"status_detail"`
	ExternalReference string     `json:"external_reference"`
	TransactionAmount float64    `json:"transaction_amount"`
	CurrencyID        string     `json:"currency_id"`
	DateCreated       *time.Time `json:"date_created,omitempty"`
	DateApproved      *time.Time `json:"date_approved,omitempty"`
	DateLastUpdated   *time.Time `json:"date_last_updated,omitempty"`
	LiveMode          bool       `json:"live_mode"`
}

func (p *Payment) IDString() string {
	if p == nil || p.ID == 0 {
		return ""
	}
	return strconv.FormatInt(p.ID, 10)
}

type Paging struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type PaymentSearchResult struct {
	Results []*Payment `json:"results"`
	Paging  Paging     `json:"paging"`
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
