package models

// PricingBreakdown is the priced result of a plan. All amounts are in the
// smallest currency unit and are rounded independently.
type PricingBreakdown struct {
	BasePrice     int64  `bson:"base_price" json:"basePrice"`
	AddonPrice    int64  `bson:"addon_price" json:"addonPrice"`
	Discount      int64  `bson:"discount" json:"discount"`
	Total         int64  `bson:"total" json:"total"`
	Currency      string `bson:"currency,omitempty" json:"currency,omitempty"`
	CouponCode    string `bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	CouponApplied bool   `bson:"coupon_applied" json:"couponApplied"` // false when no code was given or the code is unknown
}

// Subtotal is the pre-discount amount coupons apply to.
func (p PricingBreakdown) Subtotal() int64 {
	return p.BasePrice + p.AddonPrice
}
