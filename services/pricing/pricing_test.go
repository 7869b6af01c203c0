package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expertcall/models"
)

func TestQuoteSingleSessionWithPercentageCoupon(t *testing.T) {
	plan := models.CallPlan{Minutes: 15, Category: models.PlanSingle}
	save10 := &models.Coupon{Code: "SAVE10", Kind: models.CouponPercentage, Value: 10}

	got, err := Quote(plan, 4500.0/15, nil, save10)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), got.BasePrice)
	assert.Equal(t, int64(0), got.AddonPrice)
	assert.Equal(t, int64(450), got.Discount)
	assert.Equal(t, int64(4050), got.Total)
	assert.True(t, got.CouponApplied)
}

func TestQuoteSubscription(t *testing.T) {
	plan := models.CallPlan{Minutes: 30, Category: models.PlanSubscription, DurationDays: 10}

	got, err := Quote(plan, 300, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), got.BasePrice)
	assert.Equal(t, int64(90000), got.Total)
	assert.False(t, got.CouponApplied)
}

func TestQuoteSubscriptionFractionalRates(t *testing.T) {
	tests := []struct {
		name      string
		plan      models.CallPlan
		rate      float64
		addonRate float64
		wantBase  int64
		wantAddon int64
	}{
		// 5 * 0.58 * 5 lands on 14.5; 25 * 0.58 lands just under it.
		{"five days at 0.58", models.CallPlan{Minutes: 5, Category: models.PlanSubscription, DurationDays: 5}, 0.58, 0.58, 15, 15},
		{"ten days at 0.58", models.CallPlan{Minutes: 5, Category: models.PlanSubscription, DurationDays: 10}, 0.58, 0.29, 29, 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Quote(tc.plan, tc.rate, &models.Addon{Name: "notes", RatePerMinute: tc.addonRate}, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBase, got.BasePrice)
			assert.Equal(t, tc.wantAddon, got.AddonPrice)
			assert.Equal(t, tc.wantBase+tc.wantAddon, got.Total)
		})
	}
}

func TestQuoteAddonAndFixedCoupon(t *testing.T) {
	plan := models.CallPlan{Minutes: 20, Category: models.PlanSubscription, DurationDays: 5}
	addon := &models.Addon{Name: "live-transcript", RatePerMinute: 12.5}

	got, err := Quote(plan, 100, addon, &models.Coupon{Code: "FLAT", Kind: models.CouponFixed, Value: 2500})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.BasePrice)
	assert.Equal(t, int64(1250), got.AddonPrice)
	assert.Equal(t, int64(2500), got.Discount)
	assert.Equal(t, int64(8750), got.Total)
}

func TestQuoteRoundsEachComponent(t *testing.T) {
	plan := models.CallPlan{Minutes: 1, Category: models.PlanSingle}

	// 0.5 + 0.5 rounded once would be 1; rounded per component it is 2.
	got, err := Quote(plan, 0.5, &models.Addon{Name: "x", RatePerMinute: 0.5}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.BasePrice)
	assert.Equal(t, int64(1), got.AddonPrice)
	assert.Equal(t, int64(2), got.Total)

	// 15% of 333 is 49.95.
	got, err = Quote(models.CallPlan{Minutes: 3, Category: models.PlanSingle}, 111, nil,
		&models.Coupon{Code: "P15", Kind: models.CouponPercentage, Value: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Discount)
	assert.Equal(t, int64(283), got.Total)
}

func TestQuoteFixedCouponNeverGoesNegative(t *testing.T) {
	plan := models.CallPlan{Minutes: 5, Category: models.PlanSingle}
	got, err := Quote(plan, 10, nil, &models.Coupon{Code: "BIG", Kind: models.CouponFixed, Value: 1_000_000})
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Discount)
	assert.Equal(t, int64(0), got.Total)
}

func TestQuoteTotalIsNeverNegative(t *testing.T) {
	coupons := []*models.Coupon{
		nil,
		{Code: "A", Kind: models.CouponPercentage, Value: 150},
		{Code: "B", Kind: models.CouponPercentage, Value: -20},
		{Code: "C", Kind: models.CouponFixed, Value: 1e9},
		{Code: "D", Kind: models.CouponFixed, Value: -5},
	}
	for _, minutes := range []int{1, 15, 45, 90} {
		for _, days := range models.SubscriptionDurations {
			for _, rate := range []float64{0, 0.01, 3.3, 300} {
				for _, c := range coupons {
					plan := models.CallPlan{Minutes: minutes, Category: models.PlanSubscription, DurationDays: days}
					got, err := Quote(plan, rate, &models.Addon{Name: "a", RatePerMinute: rate / 3}, c)
					require.NoError(t, err)
					require.GreaterOrEqual(t, got.Total, int64(0))
					require.GreaterOrEqual(t, got.Discount, int64(0))
				}
			}
		}
	}
}

func TestQuoteValidation(t *testing.T) {
	tests := []struct {
		name string
		plan models.CallPlan
		rate float64
		want error
	}{
		{"zero minutes", models.CallPlan{Minutes: 0, Category: models.PlanSingle}, 10, ErrInvalidPlan},
		{"unknown category", models.CallPlan{Minutes: 15, Category: "weekly"}, 10, ErrInvalidPlan},
		{"unsupported subscription length", models.CallPlan{Minutes: 15, Category: models.PlanSubscription, DurationDays: 7}, 10, ErrInvalidPlan},
		{"negative rate", models.CallPlan{Minutes: 15, Category: models.PlanSingle}, -1, ErrInvalidRate},
		{"nan rate", models.CallPlan{Minutes: 15, Category: models.PlanSingle}, math.NaN(), ErrInvalidRate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Quote(tc.plan, tc.rate, nil, nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
