package models

import (
	"time"

	"github.com/fatflowers/marketpay/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transaction is one checkout attempt. ExternalReference is generated once at creation and
// is the key the processor echoes back; VendorPaymentID becomes a second join key once a
// payment notification has been reconciled.
type Transaction struct {
	ID                string  `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ExternalReference string  `gorm:"column:external_reference;type:varchar(64);not null;uniqueIndex" json:"external_reference"`
	BuyerID           string  `gorm:"column:buyer_id;type:varchar(64);not null;index:idx_transaction_buyer_id_created_at,priority:1" json:"buyer_id"`
	SellerID          *string `gorm:"column:seller_id;type:varchar(64);index" json:"seller_id"`
	// Amount is the sum of unit_price * quantity over Items.
	Amount   decimal.Decimal                      `gorm:"column:amount;type:numeric(18,2);not null" json:"amount"`
	Currency string                               `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Items    datatypes.JSONType[[]types.LineItem] `gorm:"column:items;type:jsonb;not null" json:"items"`
	Status   types.TransactionStatus              `gorm:"column:status;type:varchar(32);not null;index" json:"status"`

	VendorPreferenceID string  `gorm:"column:vendor_preference_id;type:varchar(128)" json:"vendor_preference_id"`
	VendorPaymentID    *string `gorm:"column:vendor_payment_id;type:varchar(64);index" json:"vendor_payment_id"`
	// VendorStatus / VendorStatusDetail keep the processor's raw vocabulary for support.
	VendorStatus       string     `gorm:"column:vendor_status;type:varchar(64)" json:"vendor_status"`
	VendorStatusDetail string     `gorm:"column:vendor_status_detail;type:varchar(128)" json:"vendor_status_detail"`
	PaidAt             *time.Time `gorm:"column:paid_at;default:null" json:"paid_at"`

	CreatedAt time.Time `gorm:"index:idx_transaction_buyer_id_created_at,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}

// IsOwnedBy reports whether userID is the buyer or the seller.
func (t *Transaction) IsOwnedBy(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	return t.BuyerID == userID || (t.SellerID != nil && *t.SellerID == userID)
}

func (t *Transaction) LineItems() []types.LineItem {
	if t == nil {
		return nil
	}
	return t.Items.Data()
}
