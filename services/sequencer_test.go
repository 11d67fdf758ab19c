package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"cafe_pos_server/lib"
	"cafe_pos_server/structs/tables"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan15 = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func newTestSequencer(t *testing.T, store OrderStore, at time.Time) *OrderSequencer {
	t.Helper()
	return NewOrderSequencer(store, testLogger(), testConfig(), nil).WithClock(fixedClock(t, at))
}

func pricedCoffee(t *testing.T) *PricedOrder {
	t.Helper()
	priced, err := PriceCart(context.Background(), newFakeCatalog(coffee()), []CartLine{{MenuItemID: 1, Quantity: 2}}, 5000, "")
	require.NoError(t, err)
	return priced
}

func TestNextOrderNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		at       time.Time
		want     string
	}{
		{"first order of the day", nil, jan15, "20240115-0001"},
		{"continues the day", []string{"20240115-0001", "20240115-0002"}, jan15, "20240115-0003"},
		{"gaps do not matter", []string{"20240115-0001", "20240115-0009"}, jan15, "20240115-0010"},
		{"new day restarts", []string{"20240115-0007"}, jan15.AddDate(0, 0, 1), "20240116-0001"},
		{"malformed suffix counts as zero", []string{"20240115-00ab"}, jan15, "20240115-0001"},
		{"malformed suffix next to valid ones", []string{"20240115-00ab", "20240115-0002"}, jan15, "20240115-0003"},
		{"past four digits", []string{"20240115-9999"}, jan15, "20240115-10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSequencer(t, newMemoryOrderStore(tt.existing...), tt.at)

			got, err := s.NextOrderNumber(context.Background(), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextOrderNumberUsesCafeTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Cafe.Location = time.FixedZone("AST", 3*60*60)
	at := time.Date(2024, 1, 15, 22, 30, 0, 0, time.UTC)

	s := NewOrderSequencer(newMemoryOrderStore("20240115-0004"), testLogger(), cfg, nil)

	got, err := s.NextOrderNumber(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, "20240116-0001", got)
}

func TestPlaceAssignsSequentialNumbers(t *testing.T) {
	store := newMemoryOrderStore()
	s := newTestSequencer(t, store, jan15)

	first := pricedCoffee(t)
	require.NoError(t, s.Place(context.Background(), first))
	second := pricedCoffee(t)
	require.NoError(t, s.Place(context.Background(), second))

	assert.Equal(t, "20240115-0001", first.Order.OrderNumber)
	assert.Equal(t, "20240115-0002", second.Order.OrderNumber)
	assert.NotZero(t, first.Order.ID)
	assert.Equal(t, jan15, first.Order.CreatedAt)
	require.Len(t, first.Order.Lines, 1)
	assert.Equal(t, first.Order.ID, first.Order.Lines[0].OrderID)
}

func TestPlaceRetriesWhenNumberIsClaimed(t *testing.T) {
	store := newMemoryOrderStore()
	claimed := false
	store.beforeInsert = func(order *tables.Order) {
		// another till stores the same number between our read and our write
		if !claimed {
			claimed = true
			store.put(order.OrderNumber)
		}
	}

	metrics := NewCheckoutMetrics(prometheus.NewRegistry())
	s := NewOrderSequencer(store, testLogger(), testConfig(), metrics).WithClock(fixedClock(t, jan15))

	priced := pricedCoffee(t)
	require.NoError(t, s.Place(context.Background(), priced))

	assert.Equal(t, "20240115-0002", priced.Order.OrderNumber)
	assert.Equal(t, 2, store.insertCount())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.OrderNumberConflicts))
}

func TestPlaceRetriesOnPostgresUniqueViolation(t *testing.T) {
	store := newMemoryOrderStore()
	calls := 0
	store.beforeInsert = func(*tables.Order) {
		calls++
		if calls == 1 {
			store.insertErr = &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"}
		} else {
			store.insertErr = nil
		}
	}

	s := newTestSequencer(t, store, jan15)
	require.NoError(t, s.Place(context.Background(), pricedCoffee(t)))
	assert.Equal(t, 2, store.insertCount())
}

func TestPlaceDoesNotRetryOtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"storage failure", errors.New("disk full")},
		{"unique violation on another column", &pgconn.PgError{Code: "23505", ConstraintName: "order_lines_pkey"}},
		{"generic conflict", lib.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryOrderStore()
			store.insertErr = tt.err
			s := newTestSequencer(t, store, jan15)

			err := s.Place(context.Background(), pricedCoffee(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.NotErrorIs(t, err, lib.ErrOrderNumberExhausted)
			assert.Equal(t, 1, store.insertCount())
		})
	}
}

func TestPlacePropagatesSequenceReadFailure(t *testing.T) {
	boom := errors.New("connection refused")
	store := newMemoryOrderStore()
	store.maxSeqErr = boom

	err := newTestSequencer(t, store, jan15).Place(context.Background(), pricedCoffee(t))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.insertCount())
}

func TestPlaceGivesUpAfterMaxAttempts(t *testing.T) {
	store := newMemoryOrderStore()
	store.insertErr = lib.ErrOrderNumberTaken

	metrics := NewCheckoutMetrics(prometheus.NewRegistry())
	s := NewOrderSequencer(store, testLogger(), testConfig(), metrics).WithClock(fixedClock(t, jan15))

	err := s.Place(context.Background(), pricedCoffee(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrOrderNumberExhausted)
	assert.Contains(t, err.Error(), fmt.Sprintf("after %d attempts", MaxOrderNumberAttempts))
	assert.Equal(t, MaxOrderNumberAttempts, store.insertCount())
	assert.Equal(t, float64(MaxOrderNumberAttempts), testutil.ToFloat64(metrics.OrderNumberConflicts))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.OrderNumberExhausted))
}

func TestPlaceStopsWhenContextIsCancelled(t *testing.T) {
	store := newMemoryOrderStore()
	store.insertErr = lib.ErrOrderNumberTaken

	cfg := testConfig()
	cfg.Checkout.RetryBaseDelay = time.Hour
	cfg.Checkout.RetryMaxDelay = time.Hour
	s := NewOrderSequencer(store, testLogger(), cfg, nil).WithClock(fixedClock(t, jan15))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Place(ctx, pricedCoffee(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, store.insertCount(), MaxOrderNumberAttempts)
}

func TestPlaceConcurrentCheckoutsGetDistinctNumbers(t *testing.T) {
	const checkouts = 50

	store := newMemoryOrderStore()
	// hold every checkout between reading the highest sequence and inserting
	store.beforeInsert = func(*tables.Order) { time.Sleep(time.Millisecond) }

	cfg := testConfig()
	cfg.Checkout.RetryBaseDelay = 5 * time.Millisecond
	cfg.Checkout.RetryMaxDelay = 100 * time.Millisecond

	metrics := NewCheckoutMetrics(prometheus.NewRegistry())
	s := NewOrderSequencer(store, testLogger(), cfg, metrics).WithClock(fixedClock(t, jan15))

	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, checkouts)
	for range checkouts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			priced, err := PriceCart(context.Background(), newFakeCatalog(coffee()), []CartLine{{MenuItemID: 1}}, 1500, "")
			if err != nil {
				errs <- err
				return
			}
			<-start
			errs <- s.Place(context.Background(), priced)
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Greater(t, testutil.ToFloat64(metrics.OrderNumberConflicts), 0.0, "checkouts never raced for a number")
	assert.Zero(t, testutil.ToFloat64(metrics.OrderNumberExhausted))

	numbers := store.numbers()
	require.Len(t, numbers, checkouts)
	sort.Strings(numbers)
	for i, number := range numbers {
		assert.Equal(t, lib.FormatOrderNumber("20240115", i+1), number)
	}
}
