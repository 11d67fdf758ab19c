package menu

import (
	"cafe_pos_server/handling"
	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (mrm *MenuRoutesManager) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := mrm.menuService.ListItems(r.Context(), handling.ParseCategoryFilter(r))
	if err != nil {
		handling.HandleServiceError(err, "item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(items),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) CreateItem(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.MenuItemRequest](r)
	if err != nil {
		handling.HandleServiceError(err, "item", mrm.logger, w)
		return
	}

	item, err := mrm.menuService.CreateItem(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.item.created"),
		gecho.WithData(item),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseID(r, "id")
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage("error.item.invalidItemId"),
			gecho.Send(),
		)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.MenuItemRequest](r)
	if err != nil {
		handling.HandleServiceError(err, "item", mrm.logger, w)
		return
	}

	item, err := mrm.menuService.UpdateItem(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.item.updated"),
		gecho.WithData(item),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseID(r, "id")
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage("error.item.invalidItemId"),
			gecho.Send(),
		)
		return
	}

	if err := mrm.menuService.DeleteItem(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.item.deleted"),
		gecho.Send(),
	)
}
