package archivelog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/tool"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Append(ctx context.Context, event *models.ArchiveEvent) error {
	if event.ID == "" {
		event.ID = tool.GenerateUUIDV7()
	}
	if err := g.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append archive event: %w", err)
	}
	return nil
}

func (g *GormStore) History(ctx context.Context, baseID string) ([]*models.ArchiveEvent, error) {
	var events []*models.ArchiveEvent
	if err := g.db.WithContext(ctx).
		Where("base_id = ?", baseID).
		Order("seq asc").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load archive history: %w", err)
	}
	return events, nil
}
