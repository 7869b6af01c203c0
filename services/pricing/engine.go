package pricing

import (
	"strings"

	"go.uber.org/zap"

	"expertcall/metrics"
	"expertcall/models"
)

// CouponBook is a provider's coupon table keyed by upper-cased code.
type CouponBook map[string]models.Coupon

// NewCouponBook indexes coupons by code. Coupons with an empty code or an
// unknown kind are skipped.
func NewCouponBook(coupons []models.Coupon) CouponBook {
	book := make(CouponBook, len(coupons))
	for _, c := range coupons {
		code := normalizeCode(c.Code)
		if code == "" {
			continue
		}
		if c.Kind != models.CouponPercentage && c.Kind != models.CouponFixed {
			continue
		}
		book[code] = c
	}
	return book
}

// Lookup finds a coupon by code, ignoring case and surrounding space.
func (b CouponBook) Lookup(code string) (models.Coupon, bool) {
	c, ok := b[normalizeCode(code)]
	return c, ok
}

// Engine prices plans against a coupon table.
type Engine struct {
	logger  *zap.Logger
	metrics *metrics.BookingMetrics
}

func NewEngine(logger *zap.Logger, m *metrics.BookingMetrics) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, metrics: m}
}

// QuoteCode prices a plan with an optional coupon code. An unknown code is
// priced at zero discount and reported through CouponApplied=false rather
// than as an error.
func (e *Engine) QuoteCode(plan models.CallPlan, rate float64, addon *models.Addon, book CouponBook, code string) (models.PricingBreakdown, error) {
	var coupon *models.Coupon
	code = strings.TrimSpace(code)
	if code != "" {
		if c, ok := book.Lookup(code); ok {
			coupon = &c
		} else {
			e.logger.Warn("unknown coupon code, pricing without discount", zap.String("code", code))
			e.metrics.ObserveUnknownCoupon()
		}
	}

	out, err := Quote(plan, rate, addon, coupon)
	if err != nil {
		return out, err
	}
	if coupon == nil && code != "" {
		out.CouponCode = code
	}
	e.metrics.ObserveQuote(string(plan.Category))
	return out, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
