package models

// CouponKind is how a coupon's value is applied.
type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

// Coupon is a discount code applied to the pre-discount subtotal.
type Coupon struct {
	Code  string     `bson:"code" json:"code"`
	Kind  CouponKind `bson:"kind" json:"kind"`
	Value float64    `bson:"value" json:"value"` // percent for percentage coupons, minor units for fixed
}
