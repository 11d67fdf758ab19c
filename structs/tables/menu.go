package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name" validate:"required,min=1,max=100"`
	DisplayOrder int       `bun:"display_order,notnull,default:0" json:"order" validate:"gte=0"`
	IsActive     bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Items      []MenuItem `bun:"rel:has-many,join:id=category_id" json:"items,omitempty"`
	ItemsCount int        `bun:"items_count,scanonly" json:"items_count"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	CategoryID  int64     `bun:"category_id,notnull" json:"category_id" validate:"required,gt=0"`
	Name        string    `bun:"name,notnull" json:"name" validate:"required,min=1,max=200"`
	Price       uint64    `bun:"price,notnull" json:"price"` // smallest currency unit
	Description string    `bun:"description,notnull,default:''" json:"description" validate:"max=1000"`
	IsAvailable bool      `bun:"is_available,notnull,default:true" json:"is_available"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Category     *Category `bun:"rel:belongs-to,join:category_id=id" json:"-"`
	CategoryName string    `bun:"category_name,scanonly" json:"category_name,omitempty"`
}
