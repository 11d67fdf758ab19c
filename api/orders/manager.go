package orders

import (
	"cafe_pos_server/services"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger         *gecho.Logger
	orderService   *services.OrderService
	receiptService *services.ReceiptService
	location       *time.Location
}

func NewOrderRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	receiptService *services.ReceiptService,
	location *time.Location,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:         logger,
		orderService:   orderService,
		receiptService: receiptService,
		location:       location,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orm.CreateOrder)
		r.Get("/", orm.ListOrders)
		r.Get("/{id}", orm.GetOrder)
		r.Get("/{id}/receipt", orm.GetReceipt)
		r.Post("/{id}/print", orm.PrintOrder)
	})
}
