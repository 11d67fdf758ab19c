package menu

import (
	"context"

	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// menuService is satisfied by services.MenuService.
type menuService interface {
	GetActiveMenu(ctx context.Context) ([]tables.Category, error)

	ListCategories(ctx context.Context) ([]tables.Category, error)
	CreateCategory(ctx context.Context, req *structs.CategoryRequest) (*tables.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *structs.CategoryRequest) (*tables.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListItems(ctx context.Context, categoryID int64) ([]tables.MenuItem, error)
	CreateItem(ctx context.Context, req *structs.MenuItemRequest) (*tables.MenuItem, error)
	UpdateItem(ctx context.Context, id int64, req *structs.MenuItemRequest) (*tables.MenuItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

type MenuRoutesManager struct {
	logger      *gecho.Logger
	menuService menuService
}

func NewMenuRoutesManager(logger *gecho.Logger, menuService menuService) *MenuRoutesManager {
	return &MenuRoutesManager{
		logger:      logger,
		menuService: menuService,
	}
}

func (mrm *MenuRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/menu", mrm.GetMenu)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", mrm.ListCategories)
		r.Post("/", mrm.CreateCategory)
		r.Put("/{id}", mrm.UpdateCategory)
		r.Delete("/{id}", mrm.DeleteCategory)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", mrm.ListItems)
		r.Post("/", mrm.CreateItem)
		r.Put("/{id}", mrm.UpdateItem)
		r.Delete("/{id}", mrm.DeleteItem)
	})
}
