package models

import (
	"time"

	"github.com/fatflowers/marketpay/pkg/types"
	"gorm.io/datatypes"
)

// SubscriptionStatusLog records one status change of a subscription.
type SubscriptionStatusLog struct {
	ID                string                            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID    string                            `gorm:"column:subscription_id;type:uuid;not null;index"`
	ExternalReference string                            `gorm:"column:external_reference;type:varchar(64);not null"`
	FromStatus        types.SubscriptionStatus          `gorm:"column:from_status;type:varchar(32);not null"`
	ToStatus          types.SubscriptionStatus          `gorm:"column:to_status;type:varchar(32);not null"`
	Reason            types.StatusChangeReason          `gorm:"column:reason;type:varchar(32);not null"`
	Before            datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'"`
	After             datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'"`
	Extra             datatypes.JSONMap                 `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt         time.Time
}

func (SubscriptionStatusLog) TableName() string {
	return "subscription_status_log"
}
