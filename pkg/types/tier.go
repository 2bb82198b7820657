package types

import "strings"

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
	TierTeam Tier = "team"
)

func (t Tier) Valid() bool {
	return t == TierFree || t == TierPro || t == TierTeam
}

// Paid reports whether the tier can be bought through checkout.
func (t Tier) Paid() bool {
	return t == TierPro || t == TierTeam
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// TierFromVariantName maps a payment-provider variant/plan name to a tier.
// When a name matches several plan levels the higher-privilege one wins,
// so "Pro Team Annual" classifies as team.
func TierFromVariantName(name string) Tier {
	if strings.Contains(strings.ToLower(name), "team") {
		return TierTeam
	}
	return TierPro
}
