package webhooklog

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/tool"
)

// Service records received webhook deliveries for troubleshooting.
// Without a database it degrades to structured logging only.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a webhook event log. Nil input is ignored.
func (s *Service) Save(ctx context.Context, entry *models.WebhookEventLog) {
	if entry == nil {
		return
	}
	if s.db == nil {
		logctx.FromCtx(ctx, s.log).Debugw("webhook_event",
			"event", entry.EventName, "status", entry.Status)
		return
	}
	go func() {
		if entry.ID == "" {
			entry.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event log: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
