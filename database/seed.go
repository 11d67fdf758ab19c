package database

import (
	"context"
	"fmt"

	"cafe_pos_server/structs/tables"

	"github.com/uptrace/bun"
)

type sampleCategory struct {
	name  string
	order int
	items []sampleItem
}

type sampleItem struct {
	name  string
	price uint64
}

var sampleMenu = []sampleCategory{
	{name: "المشروبات الساخنة", order: 1, items: []sampleItem{
		{"شاي عراقي", 1500}, {"قهوة عربية", 2000}, {"قهوة تركية", 2500}, {"نسكافيه", 3000},
		{"كابتشينو", 4000}, {"لاتيه", 4500}, {"موكا", 5000}, {"هوت شوكولت", 4000},
	}},
	{name: "المشروبات الباردة", order: 2, items: []sampleItem{
		{"آيس كوفي", 5000}, {"آيس لاتيه", 5500}, {"فرابتشينو", 6000}, {"سموذي فراولة", 5500},
		{"سموذي مانجو", 5500}, {"ميلك شيك", 5000}, {"موهيتو", 4500},
	}},
	{name: "العصائر الطازجة", order: 3, items: []sampleItem{
		{"عصير برتقال طازج", 4000}, {"عصير ليمون بالنعناع", 3500}, {"عصير تفاح", 3500},
		{"عصير رمان", 5000}, {"كوكتيل فواكه", 5500},
	}},
	{name: "الحلويات", order: 4, items: []sampleItem{
		{"كيكة الشوكولاتة", 5000}, {"تشيز كيك", 6000}, {"براوني", 4000},
		{"تيراميسو", 6500}, {"كريم كراميل", 4500}, {"آيس كريم", 3500},
	}},
	{name: "المأكولات الخفيفة", order: 5, items: []sampleItem{
		{"سندويش كلوب", 8000}, {"سندويش جبنة", 5000}, {"كرواسون", 3000},
		{"بيتزا صغيرة", 7000}, {"سلطة سيزر", 6000},
	}},
}

// SeedSampleMenu loads the sample menu. Existing categories and items are matched by name and left untouched.
func SeedSampleMenu(ctx context.Context, db bun.IDB) (categories, items int, err error) {
	err = Transaction(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		for _, sc := range sampleMenu {
			category, err := Query[tables.Category](tx).Where("name", sc.name).First(ctx)
			if err != nil {
				return err
			}
			if category == nil {
				category, err = Query[tables.Category](tx).Insert(ctx, &tables.Category{
					Name:         sc.name,
					DisplayOrder: sc.order,
					IsActive:     true,
				})
				if err != nil {
					return fmt.Errorf("failed to seed category %q: %w", sc.name, err)
				}
				categories++
			}

			names := make([]string, 0, len(sc.items))
			for _, si := range sc.items {
				names = append(names, si.name)
			}
			existing, err := Query[tables.MenuItem](tx).WhereIn("mi.name", names).All(ctx)
			if err != nil {
				return err
			}
			seen := make(map[string]bool, len(existing))
			for _, item := range existing {
				seen[item.Name] = true
			}

			var missing []tables.MenuItem
			for _, si := range sc.items {
				if seen[si.name] {
					continue
				}
				missing = append(missing, tables.MenuItem{
					CategoryID:  category.ID,
					Name:        si.name,
					Price:       si.price,
					IsAvailable: true,
				})
			}
			if _, err := Query[tables.MenuItem](tx).InsertMany(ctx, missing); err != nil {
				return fmt.Errorf("failed to seed items of %q: %w", sc.name, err)
			}
			items += len(missing)
		}
		return nil
	})
	return categories, items, err
}
