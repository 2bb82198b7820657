package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/dasgroupllc/archivebase/internal/app/service/subscription"
	"github.com/dasgroupllc/archivebase/internal/app/service/webhooklog"
	"github.com/dasgroupllc/archivebase/internal/models"
	"github.com/dasgroupllc/archivebase/internal/platform/lemonsqueezy"
	cfgpkg "github.com/dasgroupllc/archivebase/pkg/config"
	"github.com/dasgroupllc/archivebase/pkg/logctx"
	"github.com/dasgroupllc/archivebase/pkg/types"
)

var (
	// ErrInvalidSignature: a webhook secret is configured and the
	// delivery's signature does not match. Surfaces as 401.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrBadPayload: the body is not a parseable event. Surfaces as 500
	// so the provider retries.
	ErrBadPayload = errors.New("malformed webhook payload")
	// ErrMissingTenantReference: neither custom data nor the customer
	// index resolved a base. Recoverable; the HTTP handler still
	// answers 200 so the provider does not retry-storm.
	ErrMissingTenantReference = errors.New("webhook carries no tenant reference")
)

const providerName = "lemonsqueezy"

// applyFunc mutates a subscription according to one event type.
type applyFunc func(sub *models.Subscription, evt *Event)

// Reconciler translates payment-provider webhook events into
// subscription state changes.
type Reconciler struct {
	cfg         *cfgpkg.Config
	subSvc      *subscription.Service
	eventLog    *webhooklog.Service
	log         *zap.SugaredLogger
	transitions map[string]applyFunc
}

func NewReconciler(cfg *cfgpkg.Config, subSvc *subscription.Service, eventLog *webhooklog.Service, log *zap.SugaredLogger) *Reconciler {
	if cfg.LemonSqueezy.WebhookSecret == "" {
		log.Warnw("webhook secret not configured, signature verification disabled; do not run this in production")
	}
	r := &Reconciler{cfg: cfg, subSvc: subSvc, eventLog: eventLog, log: log}
	r.transitions = map[string]applyFunc{
		"subscription_created": r.applyCreated,
		"checkout_completed":   r.applyCreated,
		"subscription_updated": r.applyUpdated,
		// the provider spells it "cancelled"; accept both
		"subscription_cancelled": r.applyEnded,
		"subscription_canceled":  r.applyEnded,
		"subscription_expired":   r.applyEnded,
	}
	return r
}

// Handle verifies, parses and applies one webhook delivery.
func (r *Reconciler) Handle(ctx context.Context, rawBody []byte, signature string) error {
	if secret := r.cfg.LemonSqueezy.WebhookSecret; secret != "" {
		if signature == "" || !lemonsqueezy.VerifySignature(rawBody, signature, secret) {
			return ErrInvalidSignature
		}
	}

	var evt Event
	if err := json.Unmarshal(rawBody, &evt); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	log := logctx.FromCtx(ctx, r.log).With("event", evt.Meta.EventName)

	entry := &models.WebhookEventLog{
		Provider:  providerName,
		EventName: evt.Meta.EventName,
		TraceID:   logctx.TraceID(ctx),
		Data:      datatypes.JSON(rawBody),
		Status:    models.WebhookEventLogStatusReceived,
	}
	if baseID := evt.BaseID(); baseID != "" {
		entry.BaseID = lo.ToPtr(baseID)
	}
	r.eventLog.Save(ctx, entry)

	err := r.apply(ctx, &evt, log)
	r.saveResult(ctx, &evt, rawBody, err)
	return err
}

func (r *Reconciler) apply(ctx context.Context, evt *Event, log *zap.SugaredLogger) error {
	apply, ok := r.transitions[evt.Meta.EventName]
	if !ok {
		log.Infow("webhook_event_ignored")
		return nil
	}

	baseID, err := r.resolveBase(ctx, evt)
	if err != nil {
		log.Warnw("webhook_tenant_unresolved", "customer_id", evt.CustomerID())
		return err
	}

	sub, err := r.subSvc.Get(ctx, baseID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	apply(sub, evt)

	if err := r.subSvc.Set(ctx, baseID, sub); err != nil {
		return fmt.Errorf("failed to store subscription: %w", err)
	}

	log.Infow("subscription_reconciled",
		"base_id", baseID, "tier", sub.Tier, "status", sub.Status)
	return nil
}

// resolveBase finds the tenant an event belongs to: checkout custom data
// first, then the customer index built from earlier events. Update and
// cancel events often carry only the customer id.
func (r *Reconciler) resolveBase(ctx context.Context, evt *Event) (string, error) {
	if baseID := evt.BaseID(); baseID != "" {
		return baseID, nil
	}
	if customerID := evt.CustomerID(); customerID != "" {
		baseID, ok, err := r.subSvc.FindBaseByCustomer(ctx, customerID)
		if err != nil {
			return "", fmt.Errorf("customer lookup failed: %w", err)
		}
		if ok {
			return baseID, nil
		}
	}
	return "", ErrMissingTenantReference
}

func (r *Reconciler) applyCreated(sub *models.Subscription, evt *Event) {
	sub.Status = types.SubscriptionStatusActive
	sub.Tier = types.TierFromVariantName(evt.Data.Attributes.VariantName)
	sub.ExternalSubscriptionID = evt.Data.ID
	sub.ExternalCustomerID = evt.CustomerID()
	sub.CurrentPeriodEnd = evt.Data.Attributes.RenewsAt
}

func (r *Reconciler) applyUpdated(sub *models.Subscription, evt *Event) {
	if evt.Data.Attributes.Status == "active" {
		sub.Status = types.SubscriptionStatusActive
	} else {
		sub.Status = types.SubscriptionStatusCanceled
	}
	if evt.Data.Attributes.VariantName != "" {
		sub.Tier = types.TierFromVariantName(evt.Data.Attributes.VariantName)
	}
	if evt.Data.ID != "" {
		sub.ExternalSubscriptionID = evt.Data.ID
	}
	if cid := evt.CustomerID(); cid != "" {
		sub.ExternalCustomerID = cid
	}
	sub.CurrentPeriodEnd = evt.Data.Attributes.RenewsAt
}

func (r *Reconciler) applyEnded(sub *models.Subscription, evt *Event) {
	sub.Tier = types.TierFree
	sub.Status = types.SubscriptionStatusExpired
}

func (r *Reconciler) saveResult(ctx context.Context, evt *Event, rawBody []byte, resErr error) {
	resMap := map[string]any{}
	status := models.WebhookEventLogStatusHandled
	if resErr != nil {
		resMap["error"] = resErr.Error()
		status = models.WebhookEventLogStatusHandleFailed
	}
	resBytes, _ := json.Marshal(resMap)

	entry := &models.WebhookEventLog{
		Provider:  providerName,
		EventName: evt.Meta.EventName,
		TraceID:   logctx.TraceID(ctx),
		Data:      datatypes.JSON(rawBody),
		Result:    lo.ToPtr(datatypes.JSON(resBytes)),
		Status:    status,
	}
	if baseID := evt.BaseID(); baseID != "" {
		entry.BaseID = lo.ToPtr(baseID)
	}
	r.eventLog.Save(ctx, entry)
}
