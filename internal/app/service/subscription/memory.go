package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/dasgroupllc/archivebase/internal/models"
)

// MemoryStore keeps subscriptions in a process-wide map. It is the
// default when no database DSN is configured and the implementation
// tests run against. Everything here is lost on restart; the payment
// provider remains the source of truth and re-syncs paid tiers through
// webhooks.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]*models.Subscription
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs: make(map[string]*models.Subscription),
		now:  time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, baseID string) (*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sub, ok := m.subs[baseID]; ok {
		cp := *sub
		return &cp, nil
	}
	return models.DefaultSubscription(baseID, m.now()), nil
}

func (m *MemoryStore) Set(ctx context.Context, baseID string, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	cp.BaseID = baseID
	m.subs[baseID] = &cp
	return nil
}

func (m *MemoryStore) IncrementUsage(ctx context.Context, baseID string, count int) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[baseID]
	if !ok {
		sub = models.DefaultSubscription(baseID, m.now())
		m.subs[baseID] = sub
	}

	month := models.CurrentMonthMarker(m.now())
	if sub.LastResetDate != month {
		sub.MonthlyArchiveCount = 0
		sub.LastResetDate = month
	}
	sub.MonthlyArchiveCount += count

	cp := *sub
	return &cp, nil
}

func (m *MemoryStore) FindBaseByCustomer(ctx context.Context, customerID string) (string, bool, error) {
	if customerID == "" {
		return "", false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for baseID, sub := range m.subs {
		if sub.ExternalCustomerID == customerID {
			return baseID, true, nil
		}
	}
	return "", false, nil
}
