package menu

import (
	"cafe_pos_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// GetMenu serves the cashier screen: active categories with their available items.
func (mrm *MenuRoutesManager) GetMenu(w http.ResponseWriter, r *http.Request) {
	categories, err := mrm.menuService.GetActiveMenu(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "menu", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(categories),
		gecho.Send(),
	)
}
