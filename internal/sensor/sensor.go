package sensor

import (
	"fmt"
	"strconv"

	"TankSentinel/internal/calculator"
	"TankSentinel/internal/model"
)

// Kind selects which value a Sensor projects from the snapshot.
type Kind string

const (
	KindLevel    Kind = "level"
	KindGallons  Kind = "gallons"
	KindLiters   Kind = "liters"
	KindPressure Kind = "pressure"
	KindPrice    Kind = "price"
)

// UnknownID stands in for a tank identifier that cannot be resolved.
const UnknownID = "unknown"

// Source is the read side of the refresh coordinator.
type Source interface {
	Snapshot() *model.Snapshot
	LastRefreshSuccess() bool
}

// Sensor is a read-only projection of one value out of the live snapshot.
// It holds no data of its own beyond its kind, tank index and identity.
type Sensor struct {
	source   Source
	kind     Kind
	index    int // tank position; unused for KindPrice
	uniqueID string
}

// New creates a sensor of the given kind for the tank at index.
// The unique id is resolved once, from the snapshot current at creation.
func New(source Source, entryID string, kind Kind, index int) *Sensor {
	s := &Sensor{source: source, kind: kind, index: index}
	if kind == KindPrice {
		s.uniqueID = entryID + "_propane_price"
		return s
	}
	tankID := UnknownID
	if tank, ok := source.Snapshot().Tank(index); ok && tank.ID != "" {
		tankID = tank.ID.String()
	}
	prefix := string(kind)
	if kind == KindLevel {
		prefix = "tank"
	}
	s.uniqueID = fmt.Sprintf("%s_%s_%s", entryID, prefix, tankID)
	return s
}

func (s *Sensor) Kind() Kind       { return s.kind }
func (s *Sensor) UniqueID() string { return s.uniqueID }
func (s *Sensor) TankIndex() int   { return s.index }

// Name returns the display name. It follows the tank's current custom name
// and falls back to the tank's position.
func (s *Sensor) Name() string {
	return s.name(s.source.Snapshot())
}

func (s *Sensor) name(snap *model.Snapshot) string {
	if s.kind == KindPrice {
		return "Propane Price"
	}
	var base string
	if tank, ok := snap.Tank(s.index); ok {
		base, _ = tank.DisplayName()
	}
	if s.kind == KindLevel {
		if base == "" {
			base = fmt.Sprintf("Neevo Tank %d", s.index+1)
		}
		return base
	}
	if base == "" {
		base = fmt.Sprintf("Tank %d", s.index+1)
	}
	switch s.kind {
	case KindGallons:
		return base + " Gallons Remaining"
	case KindLiters:
		return base + " Liters Remaining"
	case KindPressure:
		return base + " Pressure"
	}
	return base
}

// Unit returns the unit label published with the value.
func (s *Sensor) Unit() string {
	switch s.kind {
	case KindLevel:
		return "%"
	case KindGallons:
		return "gal"
	case KindLiters:
		return "L"
	case KindPressure:
		return "psi"
	case KindPrice:
		return "$/gal"
	}
	return ""
}

// Icon returns a Material Design icon name for dashboards.
func (s *Sensor) Icon() string {
	switch s.kind {
	case KindLevel:
		return "mdi:propane-tank"
	case KindPrice:
		return "mdi:currency-usd"
	default:
		return "mdi:gauge"
	}
}

// DeviceClass returns the host device class, empty when there is none.
func (s *Sensor) DeviceClass() string {
	if s.kind == KindPressure {
		return "pressure"
	}
	return ""
}

// Value computes the current value from the live snapshot. nil means unknown.
func (s *Sensor) Value() *float64 {
	return s.value(s.source.Snapshot())
}

func (s *Sensor) value(snap *model.Snapshot) *float64 {
	if s.kind == KindPrice {
		return priceValue(snap)
	}
	tank, ok := snap.Tank(s.index)
	if !ok {
		return nil
	}
	switch s.kind {
	case KindLevel:
		if tank.Level == nil {
			return nil
		}
		v := *tank.Level
		return &v
	case KindGallons:
		return calculator.RemainingGallons(tank.Level, tank.TankCapacity)
	case KindLiters:
		return calculator.RemainingLiters(tank.Level, tank.TankCapacity)
	case KindPressure:
		v, _ := calculator.NormalizePressure(tank.TankLastPressure, tank.PressureUnitOrDefault())
		return v
	}
	return nil
}

func priceValue(snap *model.Snapshot) *float64 {
	if snap == nil || snap.Price == nil || *snap.Price == "" {
		return nil
	}
	v, err := strconv.ParseFloat(*snap.Price, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Available reports whether the host should treat the value as current.
func (s *Sensor) Available() bool {
	return s.available(s.source.Snapshot())
}

func (s *Sensor) available(snap *model.Snapshot) bool {
	if !s.source.LastRefreshSuccess() {
		return false
	}
	if s.kind == KindPrice {
		return priceValue(snap) != nil
	}
	return true
}
