package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/tool"
)

// GormStore persists subscriptions in postgres. Used when a database DSN
// is configured.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (g *GormStore) Get(ctx context.Context, baseID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := g.db.WithContext(ctx).Where("base_id = ?", baseID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultSubscription(baseID, g.now()), nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

func (g *GormStore) Set(ctx context.Context, baseID string, sub *models.Subscription) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Subscription
		err := tx.Where("base_id = ?", baseID).First(&original).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load original subscription: %w", err)
		}

		sub.BaseID = baseID
		if original.ID != "" {
			sub.ID = original.ID
			sub.CreatedAt = original.CreatedAt
		} else if sub.ID == "" {
			sub.ID = tool.GenerateUUIDV7()
		}

		if err := tx.Save(sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}
		return nil
	})
}

func (g *GormStore) IncrementUsage(ctx context.Context, baseID string, count int) (*models.Subscription, error) {
	var out *models.Subscription
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		err := tx.Where("base_id = ?", baseID).First(&sub).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load subscription: %w", err)
			}
			sub = *models.DefaultSubscription(baseID, g.now())
			sub.ID = tool.GenerateUUIDV7()
		}

		month := models.CurrentMonthMarker(g.now())
		if sub.LastResetDate != month {
			sub.MonthlyArchiveCount = 0
			sub.LastResetDate = month
		}
		sub.MonthlyArchiveCount += count

		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("failed to save usage: %w", err)
		}
		out = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) FindBaseByCustomer(ctx context.Context, customerID string) (string, bool, error) {
	if customerID == "" {
		return "", false, nil
	}
	var sub models.Subscription
	err := g.db.WithContext(ctx).Where("external_customer_id = ?", customerID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up customer: %w", err)
	}
	return sub.BaseID, true, nil
}
