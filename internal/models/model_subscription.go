package models

import (
	"time"

	"github.com/fatflowers/marketpay/pkg/types"
	"github.com/shopspring/decimal"
)

// Subscription is a recurring billing agreement (a processor preapproval).
type Subscription struct {
	ID                string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ExternalReference string `gorm:"column:external_reference;type:varchar(64);not null;uniqueIndex" json:"external_reference"`
	BuyerID           string `gorm:"column:buyer_id;type:varchar(64);not null;index" json:"buyer_id"`
	PlanID            string `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`
	PayerEmail        string `gorm:"column:payer_email;type:varchar(256)" json:"payer_email"`

	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(18,2);not null" json:"amount"`
	Currency      string              `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Frequency     int                 `gorm:"column:frequency;not null" json:"frequency"`
	FrequencyType types.FrequencyType `gorm:"column:frequency_type;type:varchar(16);not null" json:"frequency_type"`

	Status               types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	VendorSubscriptionID *string                  `gorm:"column:vendor_subscription_id;type:varchar(64);uniqueIndex" json:"vendor_subscription_id"`
	VendorStatus         string                   `gorm:"column:vendor_status;type:varchar(64)" json:"vendor_status"`

	StartAt       *time.Time `gorm:"column:start_at;default:null" json:"start_at"`
	EndAt         *time.Time `gorm:"column:end_at;default:null" json:"end_at"`
	NextPaymentAt *time.Time `gorm:"column:next_payment_at;default:null" json:"next_payment_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) IsOwnedBy(userID string) bool {
	return s != nil && userID != "" && s.BuyerID == userID
}

// Valid reports whether the subscription currently entitles the buyer.
func (s *Subscription) Valid(now time.Time) bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		(s.EndAt == nil || s.EndAt.After(now))
}
