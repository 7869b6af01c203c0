package models

// CallType selects which per-minute rate applies.
type CallType string

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

// PlanCategory distinguishes one-off sessions from multi-day subscriptions.
type PlanCategory string

const (
	PlanSingle       PlanCategory = "single"
	PlanSubscription PlanCategory = "subscription"
)

// SubscriptionDurations are the day counts a subscription can be sold for.
var SubscriptionDurations = []int{5, 10, 15, 30}

// CallPlan is a purchased unit of call time.
type CallPlan struct {
	Minutes      int          `bson:"minutes" json:"minutes"`                                // call minutes per session (per day for subscriptions)
	Category     PlanCategory `bson:"category" json:"category"`                              // "single" or "subscription"
	DurationDays int          `bson:"duration_days,omitempty" json:"durationDays,omitempty"` // subscriptions only: 5, 10, 15 or 30
}

// EffectiveDays is the number of days the plan is billed for.
func (p CallPlan) EffectiveDays() int {
	if p.Category == PlanSubscription {
		return p.DurationDays
	}
	return 1
}

// Addon is an optional real-time service sold alongside the call.
type Addon struct {
	Name          string  `bson:"name" json:"name"`
	RatePerMinute float64 `bson:"rate_per_minute" json:"ratePerMinute"`
}
