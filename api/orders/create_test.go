package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cafe_pos_server/lib"
	"cafe_pos_server/services"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type menuStub map[int64]*tables.MenuItem

func (m menuStub) GetMenuItem(_ context.Context, id int64) (*tables.MenuItem, error) {
	return m[id], nil
}

// uniqueStore keeps order numbers unique and can be told to always report a clash.
type uniqueStore struct {
	mu         sync.Mutex
	taken      map[string]bool
	alwaysTake bool
}

func (s *uniqueStore) MaxSequence(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxSeq := 0
	for number := range s.taken {
		maxSeq = max(maxSeq, lib.ParseSequence(number, prefix))
	}
	return maxSeq, nil
}

func (s *uniqueStore) InsertOrder(_ context.Context, order *tables.Order, lines []tables.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alwaysTake || s.taken[order.OrderNumber] {
		return lib.ErrOrderNumberTaken
	}
	s.taken[order.OrderNumber] = true
	order.ID = int64(len(s.taken))
	order.Lines = lines
	return nil
}

// cancelAwareStore fails like a database driver once the caller's context is cancelled.
type cancelAwareStore struct {
	*uniqueStore
}

func (s cancelAwareStore) InsertOrder(ctx context.Context, order *tables.Order, lines []tables.OrderLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.uniqueStore.InsertOrder(ctx, order, lines)
}

func newTestRouter(t *testing.T, store services.OrderStore) http.Handler {
	t.Helper()

	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{
		Cafe:     &structs.CafeConfig{Name: "مقهى", NameEn: "Cafe", Currency: "IQD", Location: time.UTC},
		Checkout: &structs.CheckoutConfig{RetryBaseDelay: time.Millisecond, RetryMaxDelay: 5 * time.Millisecond},
	}
	menu := menuStub{
		1: {ID: 1, Name: "قهوة", Price: 1500, IsAvailable: true},
		2: {ID: 2, Name: "شاي", Price: 2000, IsAvailable: true},
	}

	at := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	sequencer := services.NewOrderSequencer(store, logger, cfg, nil).WithClock(func() time.Time { return at })
	orderService := services.NewOrderService(logger, cfg, nil, menu, sequencer, nil, nil, nil)

	r := chi.NewRouter()
	NewOrderRoutesManager(logger, orderService, services.NewReceiptService(cfg), time.UTC).RegisterRoutes(r)
	return r
}

func postOrder(h http.Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "checkout with change",
			body:       `{"items":[{"id":1,"quantity":2}],"amount_paid":5000}`,
			wantStatus: http.StatusOK,
			wantBody:   []string{`"order_number":"20240115-0001"`, `"total_amount":3000`, `"change_given":2000`},
		},
		{
			name:       "several items",
			body:       `{"items":[{"id":1,"quantity":1},{"id":2,"quantity":3}],"amount_paid":7500}`,
			wantStatus: http.StatusOK,
			wantBody:   []string{`"total_amount":7500`, `"change_given":0`},
		},
		{
			name:       "empty cart",
			body:       `{"items":[],"amount_paid":1000}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"error.order.noItems", "no items in order"},
		},
		{
			name:       "unknown item",
			body:       `{"items":[{"id":99}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"error.order.itemNotFound", "item not found"},
		},
		{
			name:       "zero quantity",
			body:       `{"items":[{"id":1,"quantity":0}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"error.order.invalidQuantity"},
		},
		{
			name:       "missing item id",
			body:       `{"items":[{"quantity":2}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"items[0].id"},
		},
		{
			name:       "malformed json",
			body:       `{"items":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{"must be valid JSON"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &uniqueStore{taken: map[string]bool{}})

			w := postOrder(h, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestCreateOrderNumbersFollowEachOther(t *testing.T) {
	h := newTestRouter(t, &uniqueStore{taken: map[string]bool{}})

	first := postOrder(h, `{"items":[{"id":1}]}`)
	second := postOrder(h, `{"items":[{"id":2}]}`)

	assert.Contains(t, first.Body.String(), "20240115-0001")
	assert.Contains(t, second.Body.String(), "20240115-0002")
}

func TestCreateOrderReportsExhaustion(t *testing.T) {
	h := newTestRouter(t, &uniqueStore{taken: map[string]bool{}, alwaysTake: true})

	w := postOrder(h, `{"items":[{"id":1}]}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "error.order.numberUnavailable")
}

func TestOrderRoutesRejectBadIDs(t *testing.T) {
	h := newTestRouter(t, &uniqueStore{taken: map[string]bool{}})

	for _, path := range []string{"/orders/abc", "/orders/0/receipt"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "error.order.invalidOrderId")
	}
}

func TestCreateOrderSurvivesClientDisconnect(t *testing.T) {
	store := &uniqueStore{taken: map[string]bool{}}
	h := newTestRouter(t, cancelAwareStore{store})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(`{"items":[{"id":1}]}`)).WithContext(ctx)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "20240115-0001")
	assert.True(t, store.taken["20240115-0001"])
}
