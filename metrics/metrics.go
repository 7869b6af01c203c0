package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	reservations    *prometheus.CounterVec
	quotes          *prometheus.CounterVec
	unknownCoupons  prometheus.Counter
	approximate     prometheus.Counter
	payments        *prometheus.CounterVec
	collaboratorLat *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expertcall",
			Subsystem: "booking",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome",
		}, []string{"outcome"}),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expertcall",
			Subsystem: "pricing",
			Name:      "quotes_total",
			Help:      "Price quotes by plan category",
		}, []string{"category"}),
		unknownCoupons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "expertcall",
			Subsystem: "pricing",
			Name:      "unknown_coupon_total",
			Help:      "Coupon codes that matched nothing and were priced at zero discount",
		}),
		approximate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "expertcall",
			Subsystem: "scheduling",
			Name:      "approximate_resolution_total",
			Help:      "Wall-clock readings that fell in a DST gap",
		}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expertcall",
			Subsystem: "booking",
			Name:      "payment_confirmations_total",
			Help:      "Payment confirmations by resulting booking status",
		}, []string{"status"}),
		collaboratorLat: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expertcall",
			Subsystem: "booking",
			Name:      "collaborator_latency_seconds",
			Help:      "Latency of calls to the booking backend",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservations, m.quotes, m.unknownCoupons, m.approximate, m.payments, m.collaboratorLat)
	return m
}

func (m *BookingMetrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveQuote(category string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(category).Inc()
}

func (m *BookingMetrics) ObserveUnknownCoupon() {
	if m == nil {
		return
	}
	m.unknownCoupons.Inc()
}

func (m *BookingMetrics) ObserveApproximate() {
	if m == nil {
		return
	}
	m.approximate.Inc()
}

func (m *BookingMetrics) ObservePayment(status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveCollaborator(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.collaboratorLat.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// HTTPMetrics tracks request counts and latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expertcall",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expertcall",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// Middleware records every request under its route template, so
// /sessions/abc and /sessions/def share one series.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
