package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"cafe_pos_server/lib"
	"cafe_pos_server/messaging"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}

func testConfig() *structs.Config {
	return &structs.Config{
		Cafe: &structs.CafeConfig{
			Name:     "مقهى البيت",
			NameEn:   "Home Inn Cafe",
			Currency: "IQD",
			Location: time.UTC,
		},
		Checkout: &structs.CheckoutConfig{
			RetryBaseDelay: time.Millisecond,
			RetryMaxDelay:  50 * time.Millisecond,
		},
	}
}

// fakeCatalog serves menu items from a map.
type fakeCatalog struct {
	items map[int64]*tables.MenuItem
	err   error
}

func newFakeCatalog(items ...tables.MenuItem) *fakeCatalog {
	c := &fakeCatalog{items: make(map[int64]*tables.MenuItem)}
	for i := range items {
		c.items[items[i].ID] = &items[i]
	}
	return c
}

func (c *fakeCatalog) GetMenuItem(_ context.Context, id int64) (*tables.MenuItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.items[id], nil
}

// memoryOrderStore enforces order number uniqueness the way the database constraint does.
type memoryOrderStore struct {
	mu      sync.Mutex
	orders  map[string]*tables.Order
	nextID  int64
	inserts int

	// beforeInsert runs unlocked ahead of every insert
	beforeInsert func(order *tables.Order)
	insertErr    error
	maxSeqErr    error
}

func newMemoryOrderStore(existing ...string) *memoryOrderStore {
	s := &memoryOrderStore{orders: make(map[string]*tables.Order)}
	for _, number := range existing {
		s.put(number)
	}
	return s
}

func (s *memoryOrderStore) put(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.orders[number] = &tables.Order{ID: s.nextID, OrderNumber: number}
}

func (s *memoryOrderStore) MaxSequence(_ context.Context, prefix string) (int, error) {
	if s.maxSeqErr != nil {
		return 0, s.maxSeqErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	maxSeq := 0
	for number := range s.orders {
		if !strings.HasPrefix(number, prefix+"-") {
			continue
		}
		maxSeq = max(maxSeq, lib.ParseSequence(number, prefix))
	}
	return maxSeq, nil
}

func (s *memoryOrderStore) InsertOrder(_ context.Context, order *tables.Order, lines []tables.OrderLine) error {
	if s.beforeInsert != nil {
		s.beforeInsert(order)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++

	if s.insertErr != nil {
		return s.insertErr
	}
	if _, taken := s.orders[order.OrderNumber]; taken {
		return lib.ErrOrderNumberTaken
	}

	s.nextID++
	order.ID = s.nextID
	for i := range lines {
		lines[i].ID = int64(i + 1)
		lines[i].OrderID = order.ID
	}
	order.Lines = lines

	stored := *order
	s.orders[order.OrderNumber] = &stored
	return nil
}

func (s *memoryOrderStore) numbers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.orders))
	for number := range s.orders {
		out = append(out, number)
	}
	return out
}

func (s *memoryOrderStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

// recordingPublisher collects published events. A non-nil gate holds every publish until it is closed.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*messaging.OrderCreatedEvent
	sent   chan struct{}
	gate   chan struct{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{sent: make(chan struct{}, 16)}
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, event *messaging.OrderCreatedEvent) error {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	p.sent <- struct{}{}
	return nil
}

func (p *recordingPublisher) published() []*messaging.OrderCreatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*messaging.OrderCreatedEvent(nil), p.events...)
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) InvalidateStatistics() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

func fixedClock(t *testing.T, at time.Time) func() time.Time {
	t.Helper()
	return func() time.Time { return at }
}

func coffee() tables.MenuItem {
	return tables.MenuItem{ID: 1, CategoryID: 1, Name: "قهوة تركية", Price: 1500, IsAvailable: true}
}

func tea() tables.MenuItem {
	return tables.MenuItem{ID: 2, CategoryID: 1, Name: "شاي", Price: 2000, IsAvailable: true}
}
