package messaging

import (
	"time"

	"cafe_pos_server/structs/tables"

	"github.com/google/uuid"
)

type OrderCreatedEvent struct {
	EventID     uuid.UUID        `json:"event_id"`
	OrderID     int64            `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	TotalAmount uint64           `json:"total_amount"`
	AmountPaid  uint64           `json:"amount_paid"`
	ChangeGiven uint64           `json:"change_given"`
	CreatedAt   time.Time        `json:"created_at"`
	Items       []OrderEventItem `json:"items"`
}

type OrderEventItem struct {
	MenuItemID *int64 `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  uint64 `json:"unit_price"`
	Subtotal   uint64 `json:"subtotal"`
}

func NewOrderCreatedEvent(order *tables.Order) *OrderCreatedEvent {
	items := make([]OrderEventItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, OrderEventItem{
			MenuItemID: line.MenuItemID,
			ItemName:   line.ItemName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Subtotal:   line.Subtotal,
		})
	}

	return &OrderCreatedEvent{
		EventID:     uuid.New(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		AmountPaid:  order.AmountPaid,
		ChangeGiven: order.ChangeGiven,
		CreatedAt:   order.CreatedAt,
		Items:       items,
	}
}
