package subscription

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewStore picks the backing store: postgres when a database is
// configured, in-memory otherwise.
func NewStore(db *gorm.DB, log *zap.SugaredLogger) Store {
	if db == nil {
		log.Warnw("no database configured, subscriptions are in-memory and reset on restart")
		return NewMemoryStore()
	}
	return NewGormStore(db)
}

// Module exposes the subscription store and usage gate via Fx.
var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Provide(NewService),
)
