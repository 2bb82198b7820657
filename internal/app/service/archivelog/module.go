package archivelog

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewStore(db *gorm.DB, log *zap.SugaredLogger) Store {
	if db == nil {
		log.Warnw("no database configured, archive history is in-memory and reset on restart")
		return NewMemoryStore()
	}
	return NewGormStore(db)
}

var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Provide(NewService),
)
