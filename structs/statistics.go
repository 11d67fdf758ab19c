package structs

// Statistics summarizes sales for a period ending now.
type Statistics struct {
	Period       string      `json:"period"`
	TotalOrders  int         `json:"total_orders"`
	TotalRevenue uint64      `json:"total_revenue"`
	DailyStats   []DailyStat `json:"daily_stats"`
	TopItems     []TopItem   `json:"top_items"`
}

type DailyStat struct {
	Date        string `json:"date"` // YYYY-MM-DD in the café time zone
	OrdersCount int    `json:"orders_count"`
	Revenue     uint64 `json:"revenue"`
}

type TopItem struct {
	ItemName      string `json:"item_name"`
	TotalQuantity int    `json:"total_quantity"`
	TotalRevenue  uint64 `json:"total_revenue"`
}
