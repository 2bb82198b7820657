package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/types"
)

func newTestService(now func() time.Time) (*Service, *MemoryStore) {
	store := NewMemoryStore()
	store.now = now
	svc := NewService(store, zap.NewNop().Sugar())
	svc.now = now
	return svc, store
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGet_UnseenBaseDefaultsToFree(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(fixedClock(now))

	sub, err := svc.Get(context.Background(), "appUnseen")
	require.NoError(t, err)
	assert.Equal(t, "appUnseen", sub.BaseID)
	assert.Equal(t, types.TierFree, sub.Tier)
	assert.Equal(t, types.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, 0, sub.MonthlyArchiveCount)
	assert.Equal(t, "2026-03", sub.LastResetDate)
}

func TestRecordUsage_AccumulatesWithinMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(fixedClock(now))
	ctx := context.Background()

	sub, err := svc.RecordUsage(ctx, "app1", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, sub.MonthlyArchiveCount)

	sub, err = svc.RecordUsage(ctx, "app1", 50)
	require.NoError(t, err)
	assert.Equal(t, 150, sub.MonthlyArchiveCount)
	assert.Equal(t, "2026-03", sub.LastResetDate)
}

func TestRecordUsage_ResetsOnMonthRollover(t *testing.T) {
	clock := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(func() time.Time { return clock })
	ctx := context.Background()

	_, err := svc.RecordUsage(ctx, "app1", 480)
	require.NoError(t, err)

	clock = time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC)
	sub, err := svc.RecordUsage(ctx, "app1", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, sub.MonthlyArchiveCount)
	assert.Equal(t, "2026-04", sub.LastResetDate)

	// the store reflects the reset too
	got, err := store.Get(ctx, "app1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.MonthlyArchiveCount)
}

func TestAuthorize_FreeTier(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		used          int
		requested     int
		wantAllowed   bool
		wantRemaining int
	}{
		{name: "fresh base full quota", used: 0, requested: 500, wantAllowed: true, wantRemaining: 500},
		{name: "over the full quota", used: 0, requested: 600, wantAllowed: false, wantRemaining: 500},
		{name: "within remaining", used: 100, requested: 400, wantAllowed: true, wantRemaining: 400},
		{name: "one over remaining", used: 100, requested: 401, wantAllowed: false, wantRemaining: 400},
		{name: "quota exhausted", used: 500, requested: 1, wantAllowed: false, wantRemaining: 0},
		{name: "overshoot clamps to zero", used: 600, requested: 1, wantAllowed: false, wantRemaining: 0},
		{name: "zero records always passes", used: 500, requested: 0, wantAllowed: true, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(fixedClock(now))
			ctx := context.Background()
			if tt.used > 0 {
				_, err := svc.RecordUsage(ctx, "app1", tt.used)
				require.NoError(t, err)
			}

			d, err := svc.Authorize(ctx, "app1", tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.False(t, d.Unlimited)
			assert.Equal(t, tt.wantRemaining, d.Remaining)
		})
	}
}

func TestAuthorize_StaleMonthReadsAsFullQuota(t *testing.T) {
	clock := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(func() time.Time { return clock })
	ctx := context.Background()

	_, err := svc.RecordUsage(ctx, "app1", 500)
	require.NoError(t, err)

	clock = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	d, err := svc.Authorize(ctx, "app1", 500)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 500, d.Remaining)
}

func TestAuthorize_PaidTiersUnlimited(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	for _, tier := range []types.Tier{types.TierPro, types.TierTeam} {
		t.Run(string(tier), func(t *testing.T) {
			svc, _ := newTestService(fixedClock(now))
			ctx := context.Background()

			sub := models.DefaultSubscription("app1", now)
			sub.Tier = tier
			require.NoError(t, svc.Set(ctx, "app1", sub))

			d, err := svc.Authorize(ctx, "app1", 1_000_000)
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.True(t, d.Unlimited)
		})
	}
}

func TestSetGet_Roundtrip(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(fixedClock(now))
	ctx := context.Background()

	periodEnd := now.AddDate(0, 1, 0)
	in := &models.Subscription{
		Tier:                   types.TierTeam,
		Status:                 types.SubscriptionStatusActive,
		ExternalSubscriptionID: "sub_123",
		ExternalCustomerID:     "cust_456",
		CurrentPeriodEnd:       &periodEnd,
		LastResetDate:          "2026-03",
	}
	require.NoError(t, svc.Set(ctx, "app1", in))

	got, err := svc.Get(ctx, "app1")
	require.NoError(t, err)
	assert.Equal(t, "app1", got.BaseID)
	assert.Equal(t, types.TierTeam, got.Tier)
	assert.Equal(t, "sub_123", got.ExternalSubscriptionID)
	assert.Equal(t, "cust_456", got.ExternalCustomerID)
	require.NotNil(t, got.CurrentPeriodEnd)
	assert.True(t, got.CurrentPeriodEnd.Equal(periodEnd))
}

func TestFindBaseByCustomer(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(fixedClock(now))
	ctx := context.Background()

	sub := models.DefaultSubscription("app1", now)
	sub.ExternalCustomerID = "cust_789"
	require.NoError(t, svc.Set(ctx, "app1", sub))

	baseID, ok, err := svc.FindBaseByCustomer(ctx, "cust_789")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "app1", baseID)

	_, ok, err = svc.FindBaseByCustomer(ctx, "cust_unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	// empty customer id never matches anything
	_, ok, err = svc.FindBaseByCustomer(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
