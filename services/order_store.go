package services

import (
	"context"
	"fmt"

	"cafe_pos_server/database"
	"cafe_pos_server/lib"
	"cafe_pos_server/structs/tables"

	"github.com/uptrace/bun"
)

// bunOrderStore keeps orders in Postgres and relies on the unique index on order_number.
type bunOrderStore struct {
	db bun.IDB
}

func NewOrderStore(db bun.IDB) OrderStore {
	return &bunOrderStore{db: db}
}

func (s *bunOrderStore) MaxSequence(ctx context.Context, prefix string) (int, error) {
	var numbers []string
	err := s.db.NewSelect().
		Model((*tables.Order)(nil)).
		Column("order_number").
		Where("order_number LIKE ?", prefix+"-%").
		Scan(ctx, &numbers)
	if err != nil {
		return 0, lib.MapPgError(err)
	}

	highest := 0
	for _, number := range numbers {
		if seq := lib.ParseSequence(number, prefix); seq > highest {
			highest = seq
		}
	}
	return highest, nil
}

func (s *bunOrderStore) InsertOrder(ctx context.Context, order *tables.Order, lines []tables.OrderLine) error {
	err := database.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Returning("*").Exec(ctx); err != nil {
			return err
		}

		for i := range lines {
			lines[i].ID = 0
			lines[i].OrderID = order.ID
		}
		if len(lines) > 0 {
			if _, err := tx.NewInsert().Model(&lines).Returning("*").Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.OrderNumber, lib.MapPgError(err))
	}

	order.Lines = lines
	return nil
}
