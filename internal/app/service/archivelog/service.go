package archivelog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/tool"
)

// Stats is the aggregate view shown on the extension dashboard.
type Stats struct {
	TotalArchives  int        `json:"totalArchives"`
	TotalRecords   int        `json:"totalRecords"`
	LastArchivedAt *time.Time `json:"lastArchivedAt,omitempty"`
}

type Service struct {
	store Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Append records an archive run and returns the generated archive id.
func (s *Service) Append(ctx context.Context, baseID, tableID string, recordCount int, ruleID, ruleName string) (string, error) {
	event := &models.ArchiveEvent{
		ArchiveID:   tool.GenerateArchiveID(),
		BaseID:      baseID,
		TableID:     tableID,
		RecordCount: recordCount,
		RuleID:      ruleID,
		RuleName:    ruleName,
		ArchivedAt:  s.now(),
	}
	if err := s.store.Append(ctx, event); err != nil {
		return "", fmt.Errorf("failed to log archive: %w", err)
	}
	return event.ArchiveID, nil
}

func (s *Service) History(ctx context.Context, baseID string) ([]*models.ArchiveEvent, error) {
	return s.store.History(ctx, baseID)
}

// Stats aggregates the history on read. History volume stays small per
// base at this product size, so no snapshotting.
func (s *Service) Stats(ctx context.Context, baseID string) (*Stats, error) {
	events, err := s.store.History(ctx, baseID)
	if err != nil {
		return nil, err
	}
	stats := &Stats{TotalArchives: len(events)}
	for _, e := range events {
		stats.TotalRecords += e.RecordCount
		if stats.LastArchivedAt == nil || e.ArchivedAt.After(*stats.LastArchivedAt) {
			at := e.ArchivedAt
			stats.LastArchivedAt = &at
		}
	}
	return stats, nil
}
