package archivelog

import (
	"context"

	"github.com/dasgroupllc/archivebase/internal/models"
)

// Store is the append-only archive history per base. There are no edit or
// delete operations; unbounded growth is accepted (no retention policy).
type Store interface {
	Append(ctx context.Context, event *models.ArchiveEvent) error
	// History returns all events for a base in append order.
	History(ctx context.Context, baseID string) ([]*models.ArchiveEvent, error)
}
