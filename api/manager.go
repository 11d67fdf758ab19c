package api

import (
	"cafe_pos_server/api/debug"
	"cafe_pos_server/api/health"
	"cafe_pos_server/api/menu"
	"cafe_pos_server/api/middleware"
	"cafe_pos_server/api/orders"
	"cafe_pos_server/api/statistics"
	"cafe_pos_server/services"
	"cafe_pos_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes     *health.HealthRoutesManager
	debugRoutes      *debug.DebugRoutesManager
	menuRoutes       *menu.MenuRoutesManager
	orderRoutes      *orders.OrderRoutesManager
	statisticsRoutes *statistics.StatisticsRoutesManager
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager) *routerManager {
	return &routerManager{
		healthRoutes:     health.NewHealthRoutesManager(sm.HealthService, sm.CacheService),
		debugRoutes:      debug.NewDebugRoutesManager(sm.CacheService),
		menuRoutes:       menu.NewMenuRoutesManager(logger, sm.MenuService),
		orderRoutes:      orders.NewOrderRoutesManager(logger, sm.OrderService, sm.ReceiptService, cfg.Cafe.Location),
		statisticsRoutes: statistics.NewStatisticsRoutesManager(logger, sm.StatisticsService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router, mw *middleware.Middleware) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RateLimitMiddleware())

		rm.menuRoutes.RegisterRoutes(r)
		rm.orderRoutes.RegisterRoutes(r)
		rm.statisticsRoutes.RegisterRoutes(r)
	})
}
