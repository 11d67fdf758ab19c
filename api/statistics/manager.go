package statistics

import (
	"context"

	"cafe_pos_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// statisticsService is satisfied by services.StatisticsService.
type statisticsService interface {
	GetStatistics(ctx context.Context, period string) (*structs.Statistics, error)
}

type StatisticsRoutesManager struct {
	logger            *gecho.Logger
	statisticsService statisticsService
}

func NewStatisticsRoutesManager(logger *gecho.Logger, statisticsService statisticsService) *StatisticsRoutesManager {
	return &StatisticsRoutesManager{
		logger:            logger,
		statisticsService: statisticsService,
	}
}

func (srm *StatisticsRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/statistics", srm.GetStatistics)
}
