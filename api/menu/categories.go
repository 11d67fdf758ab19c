package menu

import (
	"cafe_pos_server/handling"
	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (mrm *MenuRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := mrm.menuService.ListCategories(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(categories),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleServiceError(err, "category", mrm.logger, w)
		return
	}

	category, err := mrm.menuService.CreateCategory(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.category.created"),
		gecho.WithData(category),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseID(r, "id")
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage("error.category.invalidCategoryId"),
			gecho.Send(),
		)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleServiceError(err, "category", mrm.logger, w)
		return
	}

	category, err := mrm.menuService.UpdateCategory(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.category.updated"),
		gecho.WithData(category),
		gecho.Send(),
	)
}

// DeleteCategory removes the category together with its items.
func (mrm *MenuRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseID(r, "id")
	if !ok {
		gecho.BadRequest(w,
			gecho.WithMessage("error.category.invalidCategoryId"),
			gecho.Send(),
		)
		return
	}

	if err := mrm.menuService.DeleteCategory(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.category.deleted"),
		gecho.Send(),
	)
}
