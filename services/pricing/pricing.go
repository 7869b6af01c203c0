package pricing

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"expertcall/models"
)

var (
	ErrInvalidPlan = errors.New("invalid call plan")
	ErrInvalidRate = errors.New("invalid per-minute rate")
)

// Quote prices a plan. Every component is rounded to the smallest currency
// unit on its own before the total is taken, so totals match ledgers that
// were built the same way.
//
// A nil coupon means no discount. Looking codes up is the caller's job; see
// Engine.QuoteCode.
func Quote(plan models.CallPlan, perMinuteRate float64, addon *models.Addon, coupon *models.Coupon) (models.PricingBreakdown, error) {
	if err := ValidatePlan(plan); err != nil {
		return models.PricingBreakdown{}, err
	}
	if !validRate(perMinuteRate) {
		return models.PricingBreakdown{}, fmt.Errorf("%w: %v", ErrInvalidRate, perMinuteRate)
	}
	if addon != nil && !validRate(addon.RatePerMinute) {
		return models.PricingBreakdown{}, fmt.Errorf("%w: addon %q rate %v", ErrInvalidRate, addon.Name, addon.RatePerMinute)
	}

	// Multiplication order is minutes, rate, days; floats do not reorder
	// without changing the rounded result.
	minutes, days := float64(plan.Minutes), float64(plan.EffectiveDays())

	var out models.PricingBreakdown
	out.BasePrice = round(minutes * perMinuteRate * days)
	if addon != nil {
		out.AddonPrice = round(minutes * addon.RatePerMinute * days)
	}
	if coupon != nil {
		out.Discount = discount(*coupon, out.Subtotal())
		out.CouponCode = coupon.Code
		out.CouponApplied = true
	}
	out.Total = max(out.Subtotal()-out.Discount, 0)
	return out, nil
}

// ValidatePlan checks minutes, category and subscription length.
func ValidatePlan(plan models.CallPlan) error {
	if plan.Minutes <= 0 {
		return fmt.Errorf("%w: minutes must be positive, got %d", ErrInvalidPlan, plan.Minutes)
	}
	switch plan.Category {
	case models.PlanSingle:
	case models.PlanSubscription:
		if !slices.Contains(models.SubscriptionDurations, plan.DurationDays) {
			return fmt.Errorf("%w: subscription duration %d days not offered", ErrInvalidPlan, plan.DurationDays)
		}
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidPlan, plan.Category)
	}
	return nil
}

func discount(c models.Coupon, subtotal int64) int64 {
	var d int64
	switch c.Kind {
	case models.CouponPercentage:
		d = round(float64(subtotal) * c.Value / 100)
	case models.CouponFixed:
		d = min(round(c.Value), subtotal)
	}
	return max(d, 0)
}

func validRate(r float64) bool {
	return r >= 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}

// round is half away from zero.
func round(v float64) int64 {
	return int64(math.Round(v))
}
