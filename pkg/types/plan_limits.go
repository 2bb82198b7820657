package types

// FreeMonthlyRecordLimit is the free-tier archive quota per calendar month.
const FreeMonthlyRecordLimit = 500

// PlanLimits describes the feature gates of a tier. Nil means unlimited.
type PlanLimits struct {
	MonthlyRecords           *int `json:"monthlyRecords"`
	MaxBases                 *int `json:"maxBases"`
	ScheduledArchivesAllowed bool `json:"scheduledArchivesAllowed"`
}

var planLimits = map[Tier]PlanLimits{
	TierFree: {MonthlyRecords: intPtr(FreeMonthlyRecordLimit), MaxBases: intPtr(1), ScheduledArchivesAllowed: false},
	TierPro:  {MonthlyRecords: nil, MaxBases: intPtr(10), ScheduledArchivesAllowed: true},
	TierTeam: {MonthlyRecords: nil, MaxBases: nil, ScheduledArchivesAllowed: true},
}

// LimitsForTier returns the plan limits table entry for a tier.
// Unknown tiers get the free limits.
func LimitsForTier(t Tier) PlanLimits {
	if l, ok := planLimits[t]; ok {
		return l
	}
	return planLimits[TierFree]
}

func intPtr(v int) *int { return &v }
