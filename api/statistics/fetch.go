package statistics

import (
	"cafe_pos_server/handling"
	"cafe_pos_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// GetStatistics reports sales for ?period=today|week|month. Unknown periods fall back to today.
func (srm *StatisticsRoutesManager) GetStatistics(w http.ResponseWriter, r *http.Request) {
	period := services.NormalizePeriod(r.URL.Query().Get("period"))

	stats, err := srm.statisticsService.GetStatistics(r.Context(), period)
	if err != nil {
		handling.HandleServiceError(err, "statistics", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(stats),
		gecho.Send(),
	)
}
