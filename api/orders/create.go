package orders

import (
	"cafe_pos_server/handling"
	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	// checkout runs to completion even when the client disconnects
	order, err := orm.orderService.PlaceOrder(context.WithoutCancel(r.Context()), body)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(map[string]any{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"total_amount": order.TotalAmount,
			"amount_paid":  order.AmountPaid,
			"change_given": order.ChangeGiven,
			"created_at":   order.CreatedAt,
		}),
		gecho.Send(),
	)
}
