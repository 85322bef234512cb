package collector

import (
	"context"
	"sync"
	"sync/atomic"

	"TankSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu        sync.Mutex
	Tanks     []model.TankRecord
	TanksErr  error
	PriceHTML string
	PriceOK   bool

	// TanksFunc, when set, replaces the canned tank response.
	TanksFunc func(ctx context.Context) ([]model.TankRecord, error)
	// PriceFunc, when set, replaces the canned price response.
	PriceFunc func(ctx context.Context, url string) (string, bool)

	tankCalls  atomic.Int32
	priceCalls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchTanks(ctx context.Context) ([]model.TankRecord, error) {
	m.tankCalls.Add(1)
	if m.TanksFunc != nil {
		return m.TanksFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TanksErr != nil {
		return nil, m.TanksErr
	}
	out := make([]model.TankRecord, len(m.Tanks))
	copy(out, m.Tanks)
	return out, nil
}

func (m *MockFetcher) FetchPriceHTML(ctx context.Context, url string) (string, bool) {
	m.priceCalls.Add(1)
	if m.PriceFunc != nil {
		return m.PriceFunc(ctx, url)
	}
	return m.PriceHTML, m.PriceOK
}

// SetTanks swaps the canned tank list.
func (m *MockFetcher) SetTanks(tanks []model.TankRecord, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tanks = tanks
	m.TanksErr = err
}

// TankCalls returns how many times FetchTanks was called.
func (m *MockFetcher) TankCalls() int { return int(m.tankCalls.Load()) }

// PriceCalls returns how many times FetchPriceHTML was called.
func (m *MockFetcher) PriceCalls() int { return int(m.priceCalls.Load()) }

// DemoPriceHTML is a minimal EIA table row served by the "mock" data source.
const DemoPriceHTML = `<table><tr class="DataRow"><td class="DataStub1">Massachusetts</td><td class="Current2">2.459</td></tr></table>`

// DemoTanks returns a small fixed fleet used by the "mock" data source.
func DemoTanks() []model.TankRecord {
	str := func(s string) *string { return &s }
	num := func(v float64) *float64 { return &v }
	owner := true
	return []model.TankRecord{
		{
			ID:               "demo-1",
			CustomName:       str("House"),
			SerialNumber:     str("OTO-000001"),
			CompanyName:      str("Demo Propane Co"),
			Product:          str("Propane"),
			Level:            num(62),
			TankCapacity:     num(1892.705),
			LastReadingDate:  str("/Date(1768421163920-0500)/"),
			TankLastPressure: num(689.5),
			PressureUnit:     str("kPa"),
			IsOwner:          &owner,
			NotifyAt1:        num(30),
			NotifyAt2:        num(20),
		},
		{
			ID:           "demo-2",
			SerialNumber: str("OTO-000002"),
			CompanyName:  str("Demo Propane Co"),
			Product:      str("Propane"),
			Level:        num(18),
			TankCapacity: num(378.541),
			NotifyAt1:    num(25),
			NotifyAt2:    num(10),
		},
	}
}
