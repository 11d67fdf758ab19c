package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCheckoutMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.observeCreated(3000, time.Now())
	m.observeConflict()
	m.observeRejected("no_items")

	count, err := testutil.GatherAndCount(reg,
		"orders_created_total",
		"order_number_conflicts_total",
		"checkout_rejected_total",
	)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, float64(3000), testutil.ToFloat64(m.OrderRevenueTotal))
}

func TestNilCheckoutMetricsIsSafe(t *testing.T) {
	var m *CheckoutMetrics

	assert.NotPanics(t, func() {
		m.observeCreated(100, time.Now())
		m.observeRejected("invalid")
		m.observeConflict()
		m.observeExhausted()
	})
}
