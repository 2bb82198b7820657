package subscription

import (
	"context"

	"github.com/dasgroupllc/archivebase/internal/models"
)

// Store persists one Subscription per base. Implementations must make
// Get total: an unseen base reads as the default free/active record with
// zero usage, it is never an error.
type Store interface {
	// Get returns the subscription for baseID, lazily defaulting.
	Get(ctx context.Context, baseID string) (*models.Subscription, error)
	// Set replaces the stored subscription wholesale.
	Set(ctx context.Context, baseID string, sub *models.Subscription) error
	// IncrementUsage adds count to the monthly archive counter, resetting
	// it first when the calendar month rolled over since the last write.
	// Returns the updated record.
	IncrementUsage(ctx context.Context, baseID string, count int) (*models.Subscription, error)
	// FindBaseByCustomer resolves a payment-provider customer id to the
	// base it belongs to. Backs reconciliation of webhook events that
	// carry no tenant reference of their own.
	FindBaseByCustomer(ctx context.Context, customerID string) (string, bool, error)
}
