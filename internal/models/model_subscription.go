package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/dasgroupllc/archivebase/pkg/types"
)

// Subscription stores the billing state of one Airtable base. A base that
// has never checked out still has a logical subscription: free/active with
// zero usage. "canceled" and "expired" are states, never deletions.
type Subscription struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	BaseID string `gorm:"column:base_id;type:varchar(64);not null;uniqueIndex" json:"base_id"`

	Tier   types.Tier               `gorm:"column:tier;type:varchar(16);not null" json:"tier"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`

	// ExternalSubscriptionID / ExternalCustomerID are opaque payment
	// provider references. ExternalCustomerID is indexed because some
	// provider events reference the subscription by customer only.
	ExternalSubscriptionID string `gorm:"column:external_subscription_id;type:varchar(64)" json:"external_subscription_id,omitempty"`
	ExternalCustomerID     string `gorm:"column:external_customer_id;type:varchar(64);index" json:"external_customer_id,omitempty"`

	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end;default:null" json:"current_period_end,omitempty"`

	// MonthlyArchiveCount is only meaningful relative to LastResetDate
	// ("2006-01"); reads must reconcile the calendar-month reset first.
	MonthlyArchiveCount int    `gorm:"column:monthly_archive_count;not null;default:0" json:"monthly_archive_count"`
	LastResetDate       string `gorm:"column:last_reset_date;type:varchar(7);not null" json:"last_reset_date"`

	// Extra stores additional JSON data (for example: promotion details).
	Extra     datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// MonthlyCountAt returns the usage counter reconciled against the
// calendar-month reset: a stale LastResetDate reads as zero.
func (s *Subscription) MonthlyCountAt(now time.Time) int {
	if s.LastResetDate != CurrentMonthMarker(now) {
		return 0
	}
	return s.MonthlyArchiveCount
}

// CurrentMonthMarker is the calendar-month key used for usage resets.
func CurrentMonthMarker(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// DefaultSubscription is the lazily-created record for an unseen base.
func DefaultSubscription(baseID string, now time.Time) *Subscription {
	return &Subscription{
		BaseID:        baseID,
		Tier:          types.TierFree,
		Status:        types.SubscriptionStatusActive,
		LastResetDate: CurrentMonthMarker(now),
	}
}
