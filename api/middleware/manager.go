package middleware

import (
	"cafe_pos_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// rateLimitCounter is satisfied by services.CacheService.
type rateLimitCounter interface {
	IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	cfg      *structs.Config
	logger   *gecho.Logger
	counters rateLimitCounter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, counters rateLimitCounter) *Middleware {
	return &Middleware{
		cfg:      cfg,
		logger:   logger,
		counters: counters,
	}
}
