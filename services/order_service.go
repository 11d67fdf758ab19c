package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cafe_pos_server/database"
	"cafe_pos_server/lib"
	"cafe_pos_server/messaging"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

const publishTimeout = 5 * time.Second

// OrderEventPublisher announces stored orders to other systems.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *messaging.OrderCreatedEvent) error
}

// statisticsInvalidator drops cached statistics once a new order lands.
type statisticsInvalidator interface {
	InvalidateStatistics() error
}

type OrderService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	db        bun.IDB
	catalog   MenuCatalog
	sequencer *OrderSequencer
	publisher OrderEventPublisher
	cache     statisticsInvalidator
	metrics   *CheckoutMetrics

	publishes sync.WaitGroup
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db bun.IDB,
	catalog MenuCatalog,
	sequencer *OrderSequencer,
	publisher OrderEventPublisher,
	cache statisticsInvalidator,
	metrics *CheckoutMetrics,
) *OrderService {
	return &OrderService{
		logger:    logger,
		cfg:       cfg,
		db:        db,
		catalog:   catalog,
		sequencer: sequencer,
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
	}
}

// PlaceOrder prices the cart against the menu, assigns an order number and stores the order with its lines.
func (os *OrderService) PlaceOrder(ctx context.Context, req *structs.OrderRequest) (*tables.Order, error) {
	started := time.Now()

	cart := make([]CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		line := CartLine{MenuItemID: item.ID, Quantity: 1}
		if item.Quantity != nil {
			if *item.Quantity <= 0 {
				os.metrics.observeRejected(rejectReason(lib.ErrInvalidQuantity))
				return nil, lib.NewCheckoutError(lib.ErrInvalidQuantity, item.ID)
			}
			line.Quantity = *item.Quantity
		}
		cart = append(cart, line)
	}

	var amountPaid int64
	if req.AmountPaid != nil {
		amountPaid = *req.AmountPaid
	}

	priced, err := PriceCart(ctx, os.catalog, cart, amountPaid, strings.TrimSpace(req.Notes))
	if err != nil {
		if errors.Is(err, lib.ErrValidation) {
			os.metrics.observeRejected(rejectReason(err))
		}
		return nil, err
	}

	if err := os.sequencer.Place(ctx, priced); err != nil {
		return nil, err
	}

	order := priced.Order
	os.metrics.observeCreated(order.TotalAmount, started)
	os.logger.Info("Order created",
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("total_amount", order.TotalAmount),
		gecho.Field("lines", len(order.Lines)),
	)

	os.afterCommit(order)
	return order, nil
}

// afterCommit runs the side effects that must not fail a stored checkout.
func (os *OrderService) afterCommit(order *tables.Order) {
	if os.cache != nil {
		if err := os.cache.InvalidateStatistics(); err != nil {
			os.logger.Warn("Failed to invalidate statistics cache", gecho.Field("error", err.Error()))
		}
	}

	if os.publisher == nil {
		return
	}
	event := messaging.NewOrderCreatedEvent(order)
	os.publishes.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := os.publisher.PublishOrderCreated(ctx, event); err != nil {
			os.logger.Error("Failed to publish order created event",
				gecho.Field("error", err.Error()),
				gecho.Field("order_number", order.OrderNumber),
			)
		}
	})
}

// DrainPublishes waits for in-flight order events to be handed to the publisher, or until ctx ends.
// Call it after the HTTP server stopped and before the publisher is closed.
func (os *OrderService) DrainPublishes(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		os.publishes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("order events still publishing: %w", ctx.Err())
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, lib.ErrNoItems):
		return "no_items"
	case errors.Is(err, lib.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, lib.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, lib.ErrAmountOverflow):
		return "amount_overflow"
	default:
		return "invalid"
	}
}

// OrderListOptions filters the order history.
type OrderListOptions struct {
	Page     int
	PerPage  int
	Search   string     // substring of the order number
	DateFrom *time.Time // inclusive, local midnight
	DateTo   *time.Time // inclusive, whole day
}

// ListOrders returns the order history newest first, with lines.
func (os *OrderService) ListOrders(ctx context.Context, opts *OrderListOptions) (*database.PaginationResult[tables.Order], error) {
	if opts == nil {
		opts = &OrderListOptions{}
	}

	query := database.Query[tables.Order](os.db).
		Relation("Lines").
		OrderBy("o.created_at", database.DESC).
		OrderBy("o.id", database.DESC)

	if opts.Search != "" {
		query = query.WhereLike("o.order_number", "%"+escapeLike(opts.Search)+"%")
	}
	if opts.DateFrom != nil {
		query = query.WhereOp("o.created_at", ">=", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		query = query.WhereOp("o.created_at", "<", opts.DateTo.AddDate(0, 0, 1))
	}

	result, err := database.Paginate(ctx, query, opts.Page, opts.PerPage)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return result, nil
}

// GetOrder returns the order with its lines, or lib.ErrNotFound.
func (os *OrderService) GetOrder(ctx context.Context, id int64) (*tables.Order, error) {
	order, err := database.FindByID[tables.Order](ctx, os.db, id, "Lines")
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}
	return order, nil
}

// MarkPrinted flips the printed flag, the only mutation allowed on a stored order.
func (os *OrderService) MarkPrinted(ctx context.Context, id int64) error {
	affected, err := database.UpdateByID[tables.Order](ctx, os.db, id, map[string]any{"is_printed": true})
	if err != nil {
		return fmt.Errorf("failed to mark order %d printed: %w", id, lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
