package database

import (
	"context"
	"fmt"

	"cafe_pos_server/structs/tables"

	"github.com/uptrace/bun"
)

type tableDef struct {
	model       any
	foreignKeys []string
}

var schema = []tableDef{
	{model: (*tables.Category)(nil)},
	{
		model: (*tables.MenuItem)(nil),
		foreignKeys: []string{
			`("category_id") REFERENCES "categories" ("id") ON DELETE CASCADE`,
		},
	},
	{model: (*tables.Order)(nil)},
	{
		model: (*tables.OrderLine)(nil),
		foreignKeys: []string{
			`("order_id") REFERENCES "orders" ("id") ON DELETE CASCADE`,
			`("menu_item_id") REFERENCES "menu_items" ("id") ON DELETE SET NULL`,
		},
	},
}

type indexSpec struct {
	model   any
	name    string
	columns []string
}

var indexes = []indexSpec{
	{model: (*tables.MenuItem)(nil), name: "menu_items_category_id_idx", columns: []string{"category_id"}},
	{model: (*tables.Order)(nil), name: "orders_created_at_idx", columns: []string{"created_at"}},
	{model: (*tables.OrderLine)(nil), name: "order_lines_order_id_idx", columns: []string{"order_id"}},
}

// Migrate creates any missing tables and indexes. It is safe to run on every start.
func Migrate(ctx context.Context, db bun.IDB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range schema {
			query := tx.NewCreateTable().Model(table.model).IfNotExists()
			for _, fk := range table.foreignKeys {
				query = query.ForeignKey(fk)
			}
			if _, err := query.Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", table.model, err)
			}
		}

		for _, idx := range indexes {
			_, err := tx.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}
		return nil
	})
}
