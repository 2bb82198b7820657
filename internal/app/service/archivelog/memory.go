package archivelog

import (
	"context"
	"sync"

	"github.com/dasgroupllc/archivebase/internal/models"
)

// MemoryStore keeps per-base event slices; the in-memory counterpart of
// the gorm store and the default without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]*models.ArchiveEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]*models.ArchiveEvent)}
}

func (m *MemoryStore) Append(ctx context.Context, event *models.ArchiveEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	cp.Seq = int64(len(m.events[event.BaseID]) + 1)
	m.events[event.BaseID] = append(m.events[event.BaseID], &cp)
	return nil
}

func (m *MemoryStore) History(ctx context.Context, baseID string) ([]*models.ArchiveEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := m.events[baseID]
	out := make([]*models.ArchiveEvent, len(events))
	for i, e := range events {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
