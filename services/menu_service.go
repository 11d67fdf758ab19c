package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type menuCache interface {
	GetMenu() ([]tables.Category, error)
	SetMenu(menu []tables.Category) error
	InvalidateMenu() error
}

// MenuService owns categories and menu items. It is also the checkout's MenuCatalog.
type MenuService struct {
	logger *gecho.Logger
	store  MenuStore
	cache  menuCache
}

func NewMenuService(logger *gecho.Logger, store MenuStore, cache menuCache) *MenuService {
	return &MenuService{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

var _ MenuCatalog = (*MenuService)(nil)

// GetMenuItem returns the item regardless of availability, or (nil, nil) if it does not exist.
func (ms *MenuService) GetMenuItem(ctx context.Context, id int64) (*tables.MenuItem, error) {
	item, err := ms.store.Item(ctx, id)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return item, nil
}

// GetActiveMenu returns active categories with their available items, for the cashier screen.
func (ms *MenuService) GetActiveMenu(ctx context.Context) ([]tables.Category, error) {
	if ms.cache != nil {
		if menu, err := ms.cache.GetMenu(); err == nil && menu != nil {
			return menu, nil
		}
	}

	categories, err := ms.store.ActiveMenu(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if categories == nil {
		categories = []tables.Category{}
	}
	for i := range categories {
		if categories[i].Items == nil {
			categories[i].Items = []tables.MenuItem{}
		}
	}

	if ms.cache != nil {
		if err := ms.cache.SetMenu(categories); err != nil {
			ms.logger.Warn("Failed to cache menu", gecho.Field("error", err.Error()))
		}
	}
	return categories, nil
}

// ListCategories returns every category with the number of items it holds.
func (ms *MenuService) ListCategories(ctx context.Context) ([]tables.Category, error) {
	categories, err := ms.store.Categories(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if categories == nil {
		categories = []tables.Category{}
	}
	return categories, nil
}

func (ms *MenuService) CreateCategory(ctx context.Context, req *structs.CategoryRequest) (*tables.Category, error) {
	category := &tables.Category{IsActive: true}
	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Order != nil {
		category.DisplayOrder = *req.Order
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := lib.ValidateStruct(category); err != nil {
		return nil, err
	}

	created, err := ms.store.InsertCategory(ctx, category)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	ms.invalidateMenu()
	return created, nil
}

// UpdateCategory applies the fields present in req.
func (ms *MenuService) UpdateCategory(ctx context.Context, id int64, req *structs.CategoryRequest) (*tables.Category, error) {
	changes := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &lib.ValidationError{Errors: []lib.FieldError{{Field: "name", Message: "is required"}}}
		}
		changes["name"] = name
	}
	if req.Order != nil {
		changes["display_order"] = *req.Order
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}

	if len(changes) > 0 {
		affected, err := ms.store.UpdateCategory(ctx, id, changes)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if affected == 0 {
			return nil, lib.ErrNotFound
		}
	}

	category, err := ms.store.Category(ctx, id)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}

	ms.invalidateMenu()
	return category, nil
}

// DeleteCategory removes the category and, through the foreign key, its items.
func (ms *MenuService) DeleteCategory(ctx context.Context, id int64) error {
	affected, err := ms.store.DeleteCategory(ctx, id)
	if err != nil {
		return lib.MapPgError(err)
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	ms.invalidateMenu()
	return nil
}

// ListItems returns menu items ordered by category then name. categoryID 0 lists all.
func (ms *MenuService) ListItems(ctx context.Context, categoryID int64) ([]tables.MenuItem, error) {
	items, err := ms.store.Items(ctx, categoryID)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if items == nil {
		items = []tables.MenuItem{}
	}
	for i := range items {
		if items[i].Category != nil {
			items[i].CategoryName = items[i].Category.Name
		}
	}
	return items, nil
}

func (ms *MenuService) CreateItem(ctx context.Context, req *structs.MenuItemRequest) (*tables.MenuItem, error) {
	item := &tables.MenuItem{IsAvailable: true}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		item.Price = uint64(*req.Price)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := lib.ValidateStruct(item); err != nil {
		return nil, err
	}
	if err := ms.requireCategory(ctx, item.CategoryID); err != nil {
		return nil, err
	}

	created, err := ms.store.InsertItem(ctx, item)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	ms.invalidateMenu()
	return created, nil
}

// UpdateItem applies the fields present in req.
func (ms *MenuService) UpdateItem(ctx context.Context, id int64, req *structs.MenuItemRequest) (*tables.MenuItem, error) {
	existing, err := ms.store.Item(ctx, id)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if existing == nil {
		return nil, lib.ErrNotFound
	}

	changes := map[string]any{"updated_at": time.Now()}
	if req.CategoryID != nil {
		if err := ms.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		changes["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &lib.ValidationError{Errors: []lib.FieldError{{Field: "name", Message: "is required"}}}
		}
		changes["name"] = name
	}
	if req.Price != nil {
		changes["price"] = uint64(*req.Price)
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.IsAvailable != nil {
		changes["is_available"] = *req.IsAvailable
	}

	if _, err := ms.store.UpdateItem(ctx, id, changes); err != nil {
		return nil, lib.MapPgError(err)
	}

	item, err := ms.store.Item(ctx, id)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if item == nil {
		return nil, lib.ErrNotFound
	}

	ms.invalidateMenu()
	return item, nil
}

// DeleteItem removes the item. Past order lines keep their snapshot with a NULL item reference.
func (ms *MenuService) DeleteItem(ctx context.Context, id int64) error {
	affected, err := ms.store.DeleteItem(ctx, id)
	if err != nil {
		return lib.MapPgError(err)
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	ms.invalidateMenu()
	return nil
}

func (ms *MenuService) requireCategory(ctx context.Context, id int64) error {
	category, err := ms.store.Category(ctx, id)
	if err != nil {
		return lib.MapPgError(err)
	}
	if category == nil {
		return fmt.Errorf("%w: %w", lib.ErrValidation, lib.ErrCategoryNotFound)
	}
	return nil
}

func (ms *MenuService) invalidateMenu() {
	if ms.cache == nil {
		return
	}
	if err := ms.cache.InvalidateMenu(); err != nil {
		ms.logger.Warn("Failed to invalidate menu cache", gecho.Field("error", err.Error()))
	}
}
