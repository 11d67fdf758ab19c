package services

import (
	"context"
	"fmt"

	"cafe_pos_server/lib"
	"cafe_pos_server/structs/tables"
)

// MenuCatalog is the read side of the menu needed at checkout.
// GetMenuItem returns (nil, nil) when the item does not exist.
type MenuCatalog interface {
	GetMenuItem(ctx context.Context, id int64) (*tables.MenuItem, error)
}

// CartLine is one unpriced entry of a cart.
type CartLine struct {
	MenuItemID int64
	Quantity   int // 0 means 1
}

// PricedOrder is a cart resolved against the catalog, ready to be numbered and stored.
type PricedOrder struct {
	Order *tables.Order
	Lines []tables.OrderLine
}

// PriceCart resolves every cart line against the catalog and computes the order totals.
// Catalog prices are authoritative. A negative amountPaid counts as nothing paid.
func PriceCart(ctx context.Context, catalog MenuCatalog, cart []CartLine, amountPaid int64, notes string) (*PricedOrder, error) {
	if len(cart) == 0 {
		return nil, lib.NewCheckoutError(lib.ErrNoItems, 0)
	}

	lines := make([]tables.OrderLine, 0, len(cart))
	var total uint64

	for _, entry := range cart {
		quantity := entry.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, lib.NewCheckoutError(lib.ErrInvalidQuantity, entry.MenuItemID)
		}

		item, err := catalog.GetMenuItem(ctx, entry.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up menu item %d: %w", entry.MenuItemID, err)
		}
		if item == nil {
			return nil, lib.NewCheckoutError(lib.ErrItemNotFound, entry.MenuItemID)
		}

		subtotal, ok := lib.MulAmount(item.Price, quantity)
		if !ok {
			return nil, lib.NewCheckoutError(lib.ErrAmountOverflow, entry.MenuItemID)
		}
		if total, ok = lib.AddAmount(total, subtotal); !ok {
			return nil, lib.NewCheckoutError(lib.ErrAmountOverflow, entry.MenuItemID)
		}

		lines = append(lines, tables.NewOrderLine(item, quantity))
	}

	return &PricedOrder{
		Order: tables.NewOrder(lines, amountPaid, notes),
		Lines: lines,
	}, nil
}
