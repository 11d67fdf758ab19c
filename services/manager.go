package services

import (
	"cafe_pos_server/database"
	"cafe_pos_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/prometheus/client_golang/prometheus"
)

type ServiceManager struct {
	CacheService      *CacheService
	HealthService     *HealthService
	MenuService       *MenuService
	OrderService      *OrderService
	StatisticsService *StatisticsService
	ReceiptService    *ReceiptService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, publisher OrderEventPublisher) *ServiceManager {
	metrics := NewCheckoutMetrics(prometheus.DefaultRegisterer)

	cacheService := NewCacheService(logger, cfg)
	healthService := NewHealthService(logger, db)
	menuService := NewMenuService(logger, NewMenuStore(db), cacheService)
	sequencer := NewOrderSequencer(NewOrderStore(db), logger, cfg, metrics)
	orderService := NewOrderService(logger, cfg, db, menuService, sequencer, publisher, cacheService, metrics)
	statisticsService := NewStatisticsService(logger, cfg, db, cacheService)
	receiptService := NewReceiptService(cfg)

	return &ServiceManager{
		CacheService:      cacheService,
		HealthService:     healthService,
		MenuService:       menuService,
		OrderService:      orderService,
		StatisticsService: statisticsService,
		ReceiptService:    receiptService,
	}
}
