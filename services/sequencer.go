package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafe_pos_server/database"
	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// MaxOrderNumberAttempts bounds the allocate-and-insert loop of a single checkout.
const MaxOrderNumberAttempts = 10

// OrderStore is the persistence needed to number and store orders.
type OrderStore interface {
	// MaxSequence returns the highest numeric suffix among order numbers starting with prefix-.
	MaxSequence(ctx context.Context, prefix string) (int, error)

	// InsertOrder stores the order and its lines atomically. A clash on the order
	// number is reported as lib.ErrOrderNumberTaken.
	InsertOrder(ctx context.Context, order *tables.Order, lines []tables.OrderLine) error
}

// OrderSequencer assigns YYYYMMDD-NNNN order numbers and persists orders,
// retrying when a concurrent checkout claims the same number.
type OrderSequencer struct {
	store    OrderStore
	logger   *gecho.Logger
	clock    func() time.Time
	location *time.Location
	retry    database.RetryConfig
	metrics  *CheckoutMetrics
}

func NewOrderSequencer(store OrderStore, logger *gecho.Logger, cfg *structs.Config, metrics *CheckoutMetrics) *OrderSequencer {
	return &OrderSequencer{
		store:    store,
		logger:   logger,
		clock:    time.Now,
		location: cfg.Cafe.Location,
		retry:    sequencerRetryConfig(cfg.Checkout.RetryBaseDelay, cfg.Checkout.RetryMaxDelay),
		metrics:  metrics,
	}
}

func sequencerRetryConfig(base, maxDelay time.Duration) database.RetryConfig {
	return database.RetryConfig{
		MaxAttempts:  MaxOrderNumberAttempts,
		InitialDelay: base,
		MaxDelay:     maxDelay,
		Multiplier:   2.0,
		EnableRetry:  true,
		Jitter:       true,
		Retryable:    lib.IsOrderNumberViolation,
	}
}

// WithClock replaces the time source. Used by tests to pin the date.
func (s *OrderSequencer) WithClock(clock func() time.Time) *OrderSequencer {
	s.clock = clock
	return s
}

// NextOrderNumber proposes the next number for the day of now.
func (s *OrderSequencer) NextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := lib.DatePrefix(now, s.location)

	maxSeq, err := s.store.MaxSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read highest order sequence for %s: %w", prefix, err)
	}

	return lib.FormatOrderNumber(prefix, maxSeq+1), nil
}

// Place numbers and stores the priced order. On success order.OrderNumber,
// order.ID and order.Lines are populated.
func (s *OrderSequencer) Place(ctx context.Context, priced *PricedOrder) error {
	order := priced.Order
	attempts := 0

	err := database.RetryWithBackoff(ctx, s.retry, func() error {
		attempts++

		now := s.clock()
		number, err := s.NextOrderNumber(ctx, now)
		if err != nil {
			return err
		}

		order.ID = 0
		order.OrderNumber = number
		order.CreatedAt = now

		lines := make([]tables.OrderLine, len(priced.Lines))
		copy(lines, priced.Lines)

		err = s.store.InsertOrder(ctx, order, lines)
		if err != nil && lib.IsOrderNumberViolation(err) {
			s.metrics.observeConflict()
			s.logger.Debug("Order number already taken, retrying",
				gecho.Field("order_number", number),
				gecho.Field("attempt", attempts),
			)
		}
		return err
	})

	if err == nil {
		return nil
	}
	if lib.IsOrderNumberViolation(err) {
		s.metrics.observeExhausted()
		s.logger.Error("Gave up allocating an order number",
			gecho.Field("attempts", attempts),
			gecho.Field("error", err.Error()),
		)
		return fmt.Errorf("%w after %d attempts", lib.ErrOrderNumberExhausted, attempts)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("failed to store order: %w", err)
}
