package structs

// OrderRequest is the body the cashier screen posts at checkout.
type OrderRequest struct {
	Items      []OrderItemRequest `json:"items" validate:"dive"`
	AmountPaid *int64             `json:"amount_paid"`
	Notes      string             `json:"notes" validate:"omitempty,max=500"`
}

type OrderItemRequest struct {
	ID       int64 `json:"id" validate:"required,gt=0"`
	Quantity *int  `json:"quantity"` // omitted means 1
}

type CategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Order    *int    `json:"order" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active"`
}

type MenuItemRequest struct {
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsAvailable *bool   `json:"is_available"`
}
