package model

import "time"

// Snapshot is the immutable result of one refresh cycle.
// A new Snapshot replaces the previous one wholesale; callers must not mutate it.
type Snapshot struct {
	Tanks          []TankRecord
	Price          *string // price per gallon as scraped, nil when unavailable
	PricingEnabled bool
	FetchedAt      time.Time
}

// Tank returns the tank at index, or false if the index is out of range.
func (s *Snapshot) Tank(index int) (*TankRecord, bool) {
	if s == nil || index < 0 || index >= len(s.Tanks) {
		return nil, false
	}
	return &s.Tanks[index], true
}

// TankCount returns the number of tanks, zero for a nil snapshot.
func (s *Snapshot) TankCount() int {
	if s == nil {
		return 0
	}
	return len(s.Tanks)
}
