package tables

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	OrderNumber string    `bun:"order_number,type:varchar(20),notnull,unique" json:"order_number"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	// Amounts in the smallest currency unit
	TotalAmount uint64 `bun:"total_amount,notnull,default:0" json:"total_amount"`
	AmountPaid  uint64 `bun:"amount_paid,notnull,default:0" json:"amount_paid"`
	ChangeGiven uint64 `bun:"change_given,notnull,default:0" json:"change_given"`

	Notes     string `bun:"notes,notnull,default:''" json:"notes"`
	IsPrinted bool   `bun:"is_printed,notnull,default:false" json:"is_printed"`

	Lines []OrderLine `bun:"rel:has-many,join:id=order_id" json:"items"`
}

type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines,alias:ol"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	OrderID    int64  `bun:"order_id,notnull" json:"order_id"`
	MenuItemID *int64 `bun:"menu_item_id" json:"menu_item_id"` // NULL once the menu item is deleted

	// Snapshot of the menu item at time of order
	ItemName  string `bun:"item_name,notnull" json:"item_name"`
	Quantity  int    `bun:"quantity,notnull" json:"quantity"`
	UnitPrice uint64 `bun:"unit_price,notnull" json:"unit_price"`
	Subtotal  uint64 `bun:"subtotal,notnull" json:"subtotal"` // unit_price * quantity
}

// NewOrderLine snapshots the menu item and derives the subtotal.
// The caller guarantees quantity > 0 and that price*quantity fits in uint64.
func NewOrderLine(item *MenuItem, quantity int) OrderLine {
	id := item.ID
	return OrderLine{
		MenuItemID: &id,
		ItemName:   item.Name,
		Quantity:   quantity,
		UnitPrice:  item.Price,
		Subtotal:   item.Price * uint64(quantity),
	}
}

// NewOrder sums the line subtotals and computes the change. A negative payment counts as nothing paid.
func NewOrder(lines []OrderLine, amountPaid int64, notes string) *Order {
	var total uint64
	for _, line := range lines {
		total += line.Subtotal
	}

	paid := uint64(0)
	if amountPaid > 0 {
		paid = uint64(amountPaid)
	}

	return &Order{
		TotalAmount: total,
		AmountPaid:  paid,
		ChangeGiven: ChangeDue(total, paid),
		Notes:       notes,
	}
}

// ChangeDue returns max(0, paid - total).
func ChangeDue(total, paid uint64) uint64 {
	if paid <= total {
		return 0
	}
	return paid - total
}

var _ bun.BeforeAppendModelHook = (*OrderLine)(nil)

func (l *OrderLine) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		l.Subtotal = l.UnitPrice * uint64(l.Quantity)
	}
	return nil
}
