package models

import (
	"time"

	"github.com/fatflowers/marketpay/pkg/types"
	"gorm.io/datatypes"
)

// TransactionStatusLog records one status change of a transaction, for troubleshooting.
// Rows are only written when the status actually changes.
type TransactionStatusLog struct {
	ID                string                           `gorm:"column:id;primary_key;type:uuid"`
	TransactionID     string                           `gorm:"column:transaction_id;type:uuid;not null;index"`
	ExternalReference string                           `gorm:"column:external_reference;type:varchar(64);not null"`
	FromStatus        types.TransactionStatus          `gorm:"column:from_status;type:varchar(32);not null"`
	ToStatus          types.TransactionStatus          `gorm:"column:to_status;type:varchar(32);not null"`
	Reason            types.StatusChangeReason         `gorm:"column:reason;type:varchar(32);not null"`
	Before            datatypes.JSONType[*Transaction] `gorm:"column:before;type:jsonb;default:'null'"`
	After             datatypes.JSONType[*Transaction] `gorm:"column:after;type:jsonb;default:'null'"`
	Extra             datatypes.JSONMap                `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt         time.Time                        `json:"created_at"`
}

func (TransactionStatusLog) TableName() string {
	return "transaction_status_log"
}
