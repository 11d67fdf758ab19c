package services

import (
	"context"
	"testing"
	"time"

	"cafe_pos_server/lib"
	"cafe_pos_server/structs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	service   *OrderService
	store     *memoryOrderStore
	publisher *recordingPublisher
	cache     *countingInvalidator
	metrics   *CheckoutMetrics
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	cfg := testConfig()
	store := newMemoryOrderStore()
	publisher := newRecordingPublisher()
	cache := &countingInvalidator{}
	metrics := NewCheckoutMetrics(prometheus.NewRegistry())
	sequencer := NewOrderSequencer(store, testLogger(), cfg, metrics).WithClock(fixedClock(t, jan15))

	return &checkoutFixture{
		service:   NewOrderService(testLogger(), cfg, nil, newFakeCatalog(coffee(), tea()), sequencer, publisher, cache, metrics),
		store:     store,
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
	}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestPlaceOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.service.PlaceOrder(context.Background(), &structs.OrderRequest{
		Items: []structs.OrderItemRequest{
			{ID: 1, Quantity: intPtr(1)},
			{ID: 2, Quantity: intPtr(3)},
		},
		AmountPaid: int64Ptr(10000),
		Notes:      "  بدون سكر  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "20240115-0001", order.OrderNumber)
	assert.Equal(t, uint64(7500), order.TotalAmount)
	assert.Equal(t, uint64(10000), order.AmountPaid)
	assert.Equal(t, uint64(2500), order.ChangeGiven)
	assert.Equal(t, "بدون سكر", order.Notes)
	assert.Len(t, order.Lines, 2)

	select {
	case <-f.publisher.sent:
	case <-time.After(time.Second):
		t.Fatal("order created event was not published")
	}
	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, order.OrderNumber, events[0].OrderNumber)
	assert.Len(t, events[0].Items, 2)

	assert.Equal(t, 1, f.cache.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.OrdersCreated))
	assert.Equal(t, float64(7500), testutil.ToFloat64(f.metrics.OrderRevenueTotal))
}

func TestPlaceOrderDefaults(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.service.PlaceOrder(context.Background(), &structs.OrderRequest{
		Items: []structs.OrderItemRequest{{ID: 1}},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 1, order.Lines[0].Quantity)
	assert.Equal(t, uint64(1500), order.TotalAmount)
	assert.Zero(t, order.AmountPaid)
	assert.Zero(t, order.ChangeGiven)
}

func TestPlaceOrderRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *structs.OrderRequest
		wantErr error
		reason  string
	}{
		{"empty cart", &structs.OrderRequest{}, lib.ErrNoItems, "no_items"},
		{"unknown item", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ID: 77}}}, lib.ErrItemNotFound, "item_not_found"},
		{"zero quantity", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ID: 1, Quantity: intPtr(0)}}}, lib.ErrInvalidQuantity, "invalid_quantity"},
		{"negative quantity", &structs.OrderRequest{Items: []structs.OrderItemRequest{{ID: 1, Quantity: intPtr(-1)}}}, lib.ErrInvalidQuantity, "invalid_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t)

			order, err := f.service.PlaceOrder(context.Background(), tt.req)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, lib.ErrValidation)

			assert.Empty(t, f.store.numbers())
			assert.Zero(t, f.store.insertCount())
			assert.Empty(t, f.publisher.published())
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CheckoutRejected.WithLabelValues(tt.reason)))
		})
	}
}

func TestPlaceOrderSurfacesExhaustion(t *testing.T) {
	f := newCheckoutFixture(t)
	f.store.insertErr = lib.ErrOrderNumberTaken

	_, err := f.service.PlaceOrder(context.Background(), &structs.OrderRequest{
		Items: []structs.OrderItemRequest{{ID: 1}},
	})
	assert.ErrorIs(t, err, lib.ErrOrderNumberExhausted)
	assert.NotErrorIs(t, err, lib.ErrValidation)
	assert.Zero(t, f.cache.calls)
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.OrdersCreated))
}

func TestDrainPublishesWaitsForInFlightEvents(t *testing.T) {
	f := newCheckoutFixture(t)
	f.publisher.gate = make(chan struct{})

	order, err := f.service.PlaceOrder(context.Background(), &structs.OrderRequest{
		Items: []structs.OrderItemRequest{{ID: 1}},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.service.DrainPublishes(ctx), context.DeadlineExceeded)
	assert.Empty(t, f.publisher.published())

	close(f.publisher.gate)
	require.NoError(t, f.service.DrainPublishes(context.Background()))

	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, order.OrderNumber, events[0].OrderNumber)
}

func TestDrainPublishesWithoutEvents(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.service.DrainPublishes(context.Background()))
}
