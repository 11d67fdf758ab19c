package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cafe_pos_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCreatedEvent(t *testing.T) {
	itemID := int64(4)
	order := &tables.Order{
		ID:          12,
		OrderNumber: "20240115-0012",
		CreatedAt:   time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		TotalAmount: 3000,
		AmountPaid:  5000,
		ChangeGiven: 2000,
		Lines: []tables.OrderLine{
			{MenuItemID: &itemID, ItemName: "قهوة", Quantity: 2, UnitPrice: 1500, Subtotal: 3000},
		},
	}

	event := NewOrderCreatedEvent(order)

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, int64(12), event.OrderID)
	assert.Equal(t, "20240115-0012", event.OrderNumber)
	assert.Equal(t, uint64(2000), event.ChangeGiven)
	require.Len(t, event.Items, 1)
	assert.Equal(t, &itemID, event.Items[0].MenuItemID)

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"order_number":"20240115-0012"`)
	assert.Contains(t, string(body), `"items":[{"menu_item_id":4`)
}

func TestNewOrderCreatedEventWithoutLines(t *testing.T) {
	event := NewOrderCreatedEvent(&tables.Order{OrderNumber: "20240115-0001"})
	assert.NotNil(t, event.Items)
	assert.Empty(t, event.Items)
	assert.NotEqual(t, NewOrderCreatedEvent(&tables.Order{}).EventID, event.EventID)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.PublishOrderCreated(context.Background(), &OrderCreatedEvent{}))
	assert.NoError(t, p.Close())
}
