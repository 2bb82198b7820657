package subscription

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/types"
)

// Decision is the usage gate's answer to an archive request.
type Decision struct {
	Allowed bool
	// Unlimited is set for pro/team tiers, where Remaining is meaningless.
	Unlimited bool
	// Remaining is how many records the free tier may still archive this
	// calendar month, before the requested count is applied.
	Remaining int
}

// Service wraps the store with the usage gate policy.
type Service struct {
	store Store
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

func (s *Service) Get(ctx context.Context, baseID string) (*models.Subscription, error) {
	return s.store.Get(ctx, baseID)
}

func (s *Service) Set(ctx context.Context, baseID string, sub *models.Subscription) error {
	return s.store.Set(ctx, baseID, sub)
}

func (s *Service) FindBaseByCustomer(ctx context.Context, customerID string) (string, bool, error) {
	return s.store.FindBaseByCustomer(ctx, customerID)
}

// Authorize checks the monthly quota before an archive run. Only the free
// tier is capped; pro and team always pass. Authorize does not reserve or
// increment anything — callers record the archive event and then call
// RecordUsage. Two concurrent requests for the same base can both pass on
// the same remaining quota; enforcement is best-effort at this tier.
func (s *Service) Authorize(ctx context.Context, baseID string, requested int) (Decision, error) {
	sub, err := s.store.Get(ctx, baseID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub.Tier != types.TierFree {
		return Decision{Allowed: true, Unlimited: true}, nil
	}

	remaining := types.FreeMonthlyRecordLimit - sub.MonthlyCountAt(s.now())
	if remaining < 0 {
		remaining = 0
	}
	if requested > remaining {
		logctx.FromCtx(ctx, s.log).Infow("quota_denied",
			"base_id", baseID, "requested", requested, "remaining", remaining)
		return Decision{Allowed: false, Remaining: remaining}, nil
	}
	return Decision{Allowed: true, Remaining: remaining}, nil
}

// RecordUsage counts archived records against the monthly quota. Callers
// invoke it after appending the archive log entry; the pair is not
// transactional, so a crash in between under-counts usage.
func (s *Service) RecordUsage(ctx context.Context, baseID string, count int) (*models.Subscription, error) {
	return s.store.IncrementUsage(ctx, baseID, count)
}
