package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dasgroupllc/archivebase/pkg/types"
)

func TestMonthlyCountAt(t *testing.T) {
	sub := &Subscription{MonthlyArchiveCount: 300, LastResetDate: "2026-03"}

	sameMonth := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 300, sub.MonthlyCountAt(sameMonth))

	nextMonth := time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, 0, sub.MonthlyCountAt(nextMonth))

	nextYear := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, sub.MonthlyCountAt(nextYear))
}

func TestCurrentMonthMarker_UsesUTC(t *testing.T) {
	// 23:30 on Jan 31 in UTC-2 is already February in UTC
	loc := time.FixedZone("UTC-2", -2*3600)
	at := time.Date(2026, 1, 31, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-02", CurrentMonthMarker(at))
}

func TestDefaultSubscription(t *testing.T) {
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	sub := DefaultSubscription("app1", now)

	assert.Equal(t, "app1", sub.BaseID)
	assert.Equal(t, types.TierFree, sub.Tier)
	assert.Equal(t, types.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, 0, sub.MonthlyArchiveCount)
	assert.Equal(t, "2026-05", sub.LastResetDate)
	assert.Nil(t, sub.CurrentPeriodEnd)
}
