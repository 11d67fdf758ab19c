package services

import (
	"context"

	"cafe_pos_server/database"
	"cafe_pos_server/structs/tables"

	"github.com/uptrace/bun"
)

// MenuStore is the persistence behind MenuService. Lookups of a missing id return (nil, nil);
// updates and deletes report the number of rows they touched.
type MenuStore interface {
	ActiveMenu(ctx context.Context) ([]tables.Category, error)

	Categories(ctx context.Context) ([]tables.Category, error)
	Category(ctx context.Context, id int64) (*tables.Category, error)
	InsertCategory(ctx context.Context, category *tables.Category) (*tables.Category, error)
	UpdateCategory(ctx context.Context, id int64, changes map[string]any) (int, error)
	DeleteCategory(ctx context.Context, id int64) (int, error)

	Items(ctx context.Context, categoryID int64) ([]tables.MenuItem, error)
	Item(ctx context.Context, id int64) (*tables.MenuItem, error)
	InsertItem(ctx context.Context, item *tables.MenuItem) (*tables.MenuItem, error)
	UpdateItem(ctx context.Context, id int64, changes map[string]any) (int, error)
	DeleteItem(ctx context.Context, id int64) (int, error)
}

type bunMenuStore struct {
	db bun.IDB
}

func NewMenuStore(db bun.IDB) MenuStore {
	return &bunMenuStore{db: db}
}

func (s *bunMenuStore) ActiveMenu(ctx context.Context) ([]tables.Category, error) {
	var categories []tables.Category
	err := database.WithRetry(ctx, func() error {
		categories = nil
		return s.db.NewSelect().
			Model(&categories).
			Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("mi.is_available = ?", true).Order("mi.name ASC")
			}).
			Where("c.is_active = ?", true).
			Order("c.display_order ASC", "c.name ASC").
			Scan(ctx)
	})
	return categories, err
}

func (s *bunMenuStore) Categories(ctx context.Context) ([]tables.Category, error) {
	return database.Query[tables.Category](s.db).
		ColumnExpr("c.*").
		ColumnExpr("(SELECT COUNT(*) FROM menu_items AS mi WHERE mi.category_id = c.id) AS items_count").
		OrderBy("c.display_order", database.ASC).
		OrderBy("c.name", database.ASC).
		All(ctx)
}

func (s *bunMenuStore) Category(ctx context.Context, id int64) (*tables.Category, error) {
	return database.FindByID[tables.Category](ctx, s.db, id)
}

func (s *bunMenuStore) InsertCategory(ctx context.Context, category *tables.Category) (*tables.Category, error) {
	return database.Query[tables.Category](s.db).Insert(ctx, category)
}

func (s *bunMenuStore) UpdateCategory(ctx context.Context, id int64, changes map[string]any) (int, error) {
	return database.UpdateByID[tables.Category](ctx, s.db, id, changes)
}

func (s *bunMenuStore) DeleteCategory(ctx context.Context, id int64) (int, error) {
	return database.DeleteByID[tables.Category](ctx, s.db, id)
}

func (s *bunMenuStore) Items(ctx context.Context, categoryID int64) ([]tables.MenuItem, error) {
	query := database.Query[tables.MenuItem](s.db).
		Relation("Category").
		OrderBy(`"category"."display_order"`, database.ASC).
		OrderBy("mi.name", database.ASC)
	if categoryID > 0 {
		query = query.Where("mi.category_id", categoryID)
	}
	return query.All(ctx)
}

func (s *bunMenuStore) Item(ctx context.Context, id int64) (*tables.MenuItem, error) {
	return database.FindByID[tables.MenuItem](ctx, s.db, id)
}

func (s *bunMenuStore) InsertItem(ctx context.Context, item *tables.MenuItem) (*tables.MenuItem, error) {
	return database.Query[tables.MenuItem](s.db).Insert(ctx, item)
}

func (s *bunMenuStore) UpdateItem(ctx context.Context, id int64, changes map[string]any) (int, error) {
	return database.UpdateByID[tables.MenuItem](ctx, s.db, id, changes)
}

func (s *bunMenuStore) DeleteItem(ctx context.Context, id int64) (int, error) {
	return database.DeleteByID[tables.MenuItem](ctx, s.db, id)
}
