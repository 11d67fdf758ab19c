package services

import (
	"context"
	"time"

	"cafe_pos_server/database"
	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"

	topItemsLimit = 10
)

type statisticsCache interface {
	GetStatistics(period string) (*structs.Statistics, error)
	SetStatistics(period string, stats *structs.Statistics) error
}

type StatisticsService struct {
	logger   *gecho.Logger
	db       bun.IDB
	cache    statisticsCache
	location *time.Location
	clock    func() time.Time
}

func NewStatisticsService(logger *gecho.Logger, cfg *structs.Config, db bun.IDB, cache statisticsCache) *StatisticsService {
	return &StatisticsService{
		logger:   logger,
		db:       db,
		cache:    cache,
		location: cfg.Cafe.Location,
		clock:    time.Now,
	}
}

// NormalizePeriod maps unknown periods to today.
func NormalizePeriod(period string) string {
	switch period {
	case PeriodWeek, PeriodMonth:
		return period
	default:
		return PeriodToday
	}
}

// PeriodStart returns local midnight of today, 7 days ago or 30 days ago.
func PeriodStart(now time.Time, loc *time.Location, period string) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch NormalizePeriod(period) {
	case PeriodWeek:
		return midnight.AddDate(0, 0, -7)
	case PeriodMonth:
		return midnight.AddDate(0, 0, -30)
	default:
		return midnight
	}
}

// GetStatistics sums the orders of the period in the database, served from cache when fresh.
func (ss *StatisticsService) GetStatistics(ctx context.Context, period string) (*structs.Statistics, error) {
	period = NormalizePeriod(period)

	if ss.cache != nil {
		if cached, err := ss.cache.GetStatistics(period); err == nil && cached != nil {
			return cached, nil
		}
	}

	now := ss.clock()
	start := PeriodStart(now, ss.location, period)
	bounds := dayBounds(start, now, ss.location)

	var buckets []dailyBucket
	if err := database.WithRetry(ctx, func() error {
		buckets = nil
		return dailyQuery(ss.db, start, bounds).Scan(ctx, &buckets)
	}); err != nil {
		return nil, lib.MapPgError(err)
	}

	var topItems []structs.TopItem
	if err := database.WithRetry(ctx, func() error {
		topItems = nil
		return topItemsQuery(ss.db, start).Scan(ctx, &topItems)
	}); err != nil {
		return nil, lib.MapPgError(err)
	}

	stats := buildStatistics(period, bounds, buckets, topItems)

	if ss.cache != nil {
		if err := ss.cache.SetStatistics(period, stats); err != nil {
			ss.logger.Warn("Failed to cache statistics", gecho.Field("error", err.Error()), gecho.Field("period", period))
		}
	}
	return stats, nil
}

// dailyBucket is one row of dailyQuery. Bucket i covers the local day starting at bounds[i-1].
type dailyBucket struct {
	Bucket      int    `bun:"bucket"`
	OrdersCount int    `bun:"orders_count"`
	Revenue     uint64 `bun:"revenue"`
}

// dayBounds returns the local midnights from start through today.
func dayBounds(start, now time.Time, loc *time.Location) []time.Time {
	today := PeriodStart(now, loc, PeriodToday)

	var bounds []time.Time
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		bounds = append(bounds, day)
	}
	return bounds
}

// dailyQuery counts orders and revenue per local day. The day boundaries come from Go so the
// café time zone never has to be known to Postgres.
func dailyQuery(db bun.IDB, start time.Time, bounds []time.Time) *bun.SelectQuery {
	thresholds := make([]string, len(bounds))
	for i, b := range bounds {
		thresholds[i] = b.Format(time.RFC3339)
	}

	return db.NewSelect().
		Model((*tables.Order)(nil)).
		ColumnExpr("width_bucket(o.created_at, ?::timestamptz[]) AS bucket", pgdialect.Array(thresholds)).
		ColumnExpr("COUNT(*) AS orders_count").
		ColumnExpr("COALESCE(SUM(o.total_amount), 0)::bigint AS revenue").
		Where("o.created_at >= ?", start).
		GroupExpr("bucket").
		OrderExpr("bucket ASC")
}

// topItemsQuery ranks the snapshot item names of the period by quantity sold.
func topItemsQuery(db bun.IDB, start time.Time) *bun.SelectQuery {
	return db.NewSelect().
		Model((*tables.OrderLine)(nil)).
		ColumnExpr("ol.item_name AS item_name").
		ColumnExpr("SUM(ol.quantity)::bigint AS total_quantity").
		ColumnExpr("SUM(ol.subtotal)::bigint AS total_revenue").
		Join("JOIN orders AS o ON o.id = ol.order_id").
		Where("o.created_at >= ?", start).
		GroupExpr("ol.item_name").
		OrderExpr("total_quantity DESC, ol.item_name ASC").
		Limit(topItemsLimit)
}

func buildStatistics(period string, bounds []time.Time, buckets []dailyBucket, topItems []structs.TopItem) *structs.Statistics {
	stats := &structs.Statistics{
		Period:     period,
		DailyStats: []structs.DailyStat{},
		TopItems:   topItems,
	}
	if stats.TopItems == nil {
		stats.TopItems = []structs.TopItem{}
	}

	for _, b := range buckets {
		if b.Bucket < 1 || b.Bucket > len(bounds) {
			continue
		}
		stats.TotalOrders += b.OrdersCount
		stats.TotalRevenue += b.Revenue
		stats.DailyStats = append(stats.DailyStats, structs.DailyStat{
			Date:        bounds[b.Bucket-1].Format(time.DateOnly),
			OrdersCount: b.OrdersCount,
			Revenue:     b.Revenue,
		})
	}
	return stats
}
