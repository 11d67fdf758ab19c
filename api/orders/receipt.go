package orders

import (
	"cafe_pos_server/handling"
	"cafe_pos_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// GetReceipt renders one copy of the receipt, ?copy=customer|cashier.
func (orm *OrderRoutesManager) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseID(r, "id")
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidOrderId"),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	copyType := services.NormalizeCopy(r.URL.Query().Get("copy"))
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order_number": order.OrderNumber,
			"copy":         copyType,
			"receipt":      orm.receiptService.Render(order, copyType),
		}),
		gecho.Send(),
	)
}

// PrintOrder renders both copies and flags the order as printed. Sending the text to a printer is up to the client.
func (orm *OrderRoutesManager) PrintOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseID(r, "id")
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidOrderId"),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	receipts := orm.receiptService.RenderForPrint(order)

	if err := orm.orderService.MarkPrinted(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.printed"),
		gecho.WithData(map[string]any{
			"order_number": order.OrderNumber,
			"receipts":     receipts,
		}),
		gecho.Send(),
	)
}
