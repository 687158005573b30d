package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentNotificationLogStatus string

const (
	PaymentNotificationLogStatusReceived     PaymentNotificationLogStatus = "received"
	PaymentNotificationLogStatusHandled      PaymentNotificationLogStatus = "handled"
	PaymentNotificationLogStatusHandleFailed PaymentNotificationLogStatus = "handle_failed"
	// PaymentNotificationLogStatusIgnored marks deliveries acknowledged without processing:
	// unknown event types and notifications whose record does not exist locally.
	PaymentNotificationLogStatusIgnored PaymentNotificationLogStatus = "ignored"
)

// PaymentNotificationLog keeps every processor webhook delivery for audit and replay.
type PaymentNotificationLog struct {
	ID                string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID        string                       `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	EventType         string                       `gorm:"column:event_type;type:varchar(64);not null;index" json:"event_type"`
	Action            string                       `gorm:"column:action;type:varchar(64)" json:"action"`
	VendorID          string                       `gorm:"column:vendor_id;type:varchar(128);index" json:"vendor_id"`
	ExternalReference *string                      `gorm:"column:external_reference;type:varchar(64);index" json:"external_reference"`
	TraceID           string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	NotificationTime  time.Time                    `gorm:"column:notification_time" json:"notification_time"`
	Data              datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Result            *datatypes.JSON              `gorm:"column:result;type:jsonb" json:"result"`
	Status            PaymentNotificationLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

func (PaymentNotificationLog) TableName() string { return "payment_notification_log" }
