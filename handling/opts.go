package handling

import (
	"cafe_pos_server/services"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// ParseID reads a positive integer path parameter.
func ParseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseOrderListOptions parses the order history query. Unparseable values fall back to defaults.
func ParseOrderListOptions(r *http.Request, loc *time.Location) *services.OrderListOptions {
	query := r.URL.Query()
	opts := &services.OrderListOptions{}

	if len(query) == 0 {
		return opts
	}

	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		opts.Page = page
	}

	if perPage, err := strconv.Atoi(query.Get("per_page")); err == nil {
		opts.PerPage = perPage
	}

	opts.Search = strings.TrimSpace(query.Get("search"))
	opts.DateFrom = parseDate(query.Get("date_from"), loc)
	opts.DateTo = parseDate(query.Get("date_to"), loc)

	return opts
}

// ParseCategoryFilter returns the ?category= id, or 0 for all categories.
func ParseCategoryFilter(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get("category"), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func parseDate(value string, loc *time.Location) *time.Time {
	if value == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return nil
	}
	return &t
}
