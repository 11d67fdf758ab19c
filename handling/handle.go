package handling

import (
	"cafe_pos_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError logs err and answers 500 with msg as the message key.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}

// HandleServiceError maps a service error onto a response. scope prefixes the message key, e.g. "order".
func HandleServiceError(err error, scope string, logger *gecho.Logger, w http.ResponseWriter) {
	var validationErr *lib.ValidationError
	if errors.As(err, &validationErr) {
		gecho.BadRequest(w,
			gecho.WithMessage("error."+scope+".invalidRequestBody"),
			gecho.WithData(validationErr),
			gecho.Send(),
		)
		return
	}

	var checkoutErr *lib.CheckoutError
	if errors.As(err, &checkoutErr) {
		data := map[string]any{"error": checkoutErr.Error()}
		if checkoutErr.ItemID != 0 {
			data["item_id"] = checkoutErr.ItemID
		}
		gecho.BadRequest(w,
			gecho.WithMessage("error."+scope+"."+checkoutMessageKey(checkoutErr.Cause)),
			gecho.WithData(data),
			gecho.Send(),
		)
		return
	}

	switch {
	case errors.Is(err, lib.ErrValidation):
		gecho.BadRequest(w,
			gecho.WithMessage("error."+scope+".invalid"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w,
			gecho.WithMessage("error."+scope+".notFound"),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrOrderNumberExhausted):
		logger.Error("Order number allocation exhausted", gecho.Field("error", err))
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("error.order.numberUnavailable"),
			gecho.WithData(map[string]string{"error": "could not allocate an order number, please retry"}),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w,
			gecho.WithMessage("error."+scope+".conflict"),
			gecho.Send(),
		)
	default:
		HandleError(err, "error."+scope+".internal", logger, w)
	}
}

func checkoutMessageKey(cause error) string {
	switch {
	case errors.Is(cause, lib.ErrNoItems):
		return "noItems"
	case errors.Is(cause, lib.ErrItemNotFound):
		return "itemNotFound"
	case errors.Is(cause, lib.ErrInvalidQuantity):
		return "invalidQuantity"
	case errors.Is(cause, lib.ErrAmountOverflow):
		return "amountOverflow"
	}
	return "invalid"
}
