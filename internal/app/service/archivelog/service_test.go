package archivelog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(now func() time.Time) *Service {
	svc := NewService(NewMemoryStore(), zap.NewNop().Sugar())
	svc.now = now
	return svc
}

func TestAppend_GeneratesArchiveIDs(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(func() time.Time { return now })
	ctx := context.Background()

	id1, err := svc.Append(ctx, "app1", "tblOrders", 25, "rule1", "Old orders")
	require.NoError(t, err)
	id2, err := svc.Append(ctx, "app1", "tblOrders", 10, "rule1", "Old orders")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id1, "archive_"))
	assert.NotEqual(t, id1, id2)
}

func TestHistory_ReturnsAppendOrder(t *testing.T) {
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(func() time.Time { return clock })
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for i, count := range []int{25, 10, 7} {
		id, err := svc.Append(ctx, "app1", "tblOrders", count, "rule1", "Old orders")
		require.NoError(t, err)
		ids = append(ids, id)
		clock = clock.Add(time.Duration(i+1) * time.Hour)
	}
	// a second base must not leak into app1's history
	_, err := svc.Append(ctx, "app2", "tblTasks", 99, "rule2", "Done tasks")
	require.NoError(t, err)

	events, err := svc.History(ctx, "app1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, ids[i], e.ArchiveID)
		assert.Equal(t, "app1", e.BaseID)
		assert.Equal(t, "tblOrders", e.TableID)
		assert.Equal(t, "rule1", e.RuleID)
		assert.Equal(t, "Old orders", e.RuleName)
		assert.Equal(t, int64(i+1), e.Seq)
	}
	assert.Equal(t, []int{25, 10, 7}, []int{events[0].RecordCount, events[1].RecordCount, events[2].RecordCount})
}

func TestStats(t *testing.T) {
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(func() time.Time { return clock })
	ctx := context.Background()

	empty, err := svc.Stats(ctx, "app1")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalArchives)
	assert.Equal(t, 0, empty.TotalRecords)
	assert.Nil(t, empty.LastArchivedAt)

	_, err = svc.Append(ctx, "app1", "tblOrders", 25, "rule1", "Old orders")
	require.NoError(t, err)
	clock = clock.Add(2 * time.Hour)
	last := clock
	_, err = svc.Append(ctx, "app1", "tblOrders", 10, "rule1", "Old orders")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "app1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArchives)
	assert.Equal(t, 35, stats.TotalRecords)
	require.NotNil(t, stats.LastArchivedAt)
	assert.True(t, stats.LastArchivedAt.Equal(last))
}
