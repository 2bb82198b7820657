package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// WebhookEventLog records every payment-provider webhook delivery.
// Use case: troubleshooting reconciliation, replaying missed events by hand.
type WebhookEventLog struct {
	ID        string `gorm:"column:id;type:uuid;primary_key"`
	Provider  string `gorm:"column:provider;type:varchar(32);not null"`
	EventName string `gorm:"column:event_name;type:varchar(64);index"`
	BaseID    *string `gorm:"column:base_id;type:varchar(64);index"`
	TraceID   string `gorm:"column:trace_id;type:varchar(64)"`
	// Data is the raw event payload as delivered.
	Data datatypes.JSON `gorm:"column:data;type:jsonb;default:'{}'"`
	// Result stores the reconciliation outcome (applied mutation or error).
	Result    *datatypes.JSON       `gorm:"column:result;type:jsonb;default:null"`
	Status    WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null"`
	CreatedAt time.Time
}

func (WebhookEventLog) TableName() string {
	return "webhook_event_log"
}
