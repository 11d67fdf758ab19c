package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics tracks checkout outcomes. A nil *CheckoutMetrics records nothing.
type CheckoutMetrics struct {
	OrdersCreated        prometheus.Counter
	OrderNumberConflicts prometheus.Counter
	OrderNumberExhausted prometheus.Counter
	CheckoutRejected     *prometheus.CounterVec
	CheckoutDuration     prometheus.Histogram
	OrderRevenueTotal    prometheus.Counter
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	m := &CheckoutMetrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Number of orders stored at checkout",
		}),
		OrderNumberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_number_conflicts_total",
			Help: "Order number collisions resolved by retrying",
		}),
		OrderNumberExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_number_exhausted_total",
			Help: "Checkouts that ran out of order number attempts",
		}),
		CheckoutRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_rejected_total",
			Help: "Checkouts rejected by validation",
		}, []string{"reason"}),
		CheckoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Duration of checkout including order number allocation",
			Buckets: prometheus.DefBuckets,
		}),
		OrderRevenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_revenue_total",
			Help: "Sum of order totals in the smallest currency unit",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.OrdersCreated,
			m.OrderNumberConflicts,
			m.OrderNumberExhausted,
			m.CheckoutRejected,
			m.CheckoutDuration,
			m.OrderRevenueTotal,
		)
	}
	return m
}

func (m *CheckoutMetrics) observeCreated(total uint64, started time.Time) {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
	m.OrderRevenueTotal.Add(float64(total))
	m.CheckoutDuration.Observe(time.Since(started).Seconds())
}

func (m *CheckoutMetrics) observeRejected(reason string) {
	if m == nil {
		return
	}
	m.CheckoutRejected.WithLabelValues(reason).Inc()
}

func (m *CheckoutMetrics) observeConflict() {
	if m == nil {
		return
	}
	m.OrderNumberConflicts.Inc()
}

func (m *CheckoutMetrics) observeExhausted() {
	if m == nil {
		return
	}
	m.OrderNumberExhausted.Inc()
}
