package sensor

import "sync"

// State is the serializable form of a sensor pushed to host surfaces.
type State struct {
	UniqueID    string         `json:"unique_id"`
	Name        string         `json:"name"`
	Kind        Kind           `json:"kind"`
	TankIndex   *int           `json:"tank_index,omitempty"`
	Value       *float64       `json:"value"`
	Unit        string         `json:"unit"`
	Icon        string         `json:"icon"`
	DeviceClass string         `json:"device_class,omitempty"`
	StateClass  string         `json:"state_class"`
	Available   bool           `json:"available"`
	Attributes  map[string]any `json:"attributes"`
}

// State computes the sensor's current published state. Every field is derived
// from the same snapshot, even if a refresh publishes a new one meanwhile.
func (s *Sensor) State() State {
	snap := s.source.Snapshot()
	st := State{
		UniqueID:    s.uniqueID,
		Name:        s.name(snap),
		Kind:        s.kind,
		Value:       s.value(snap),
		Unit:        s.Unit(),
		Icon:        s.Icon(),
		DeviceClass: s.DeviceClass(),
		StateClass:  "measurement",
		Available:   s.available(snap),
		Attributes:  s.attributes(snap),
	}
	if s.kind != KindPrice {
		idx := s.index
		st.TankIndex = &idx
	}
	return st
}

// Build creates the sensor set for the snapshot currently published by source:
// level, gallons and liters per tank, pressure for tanks reporting one, and a
// price sensor when pricing is enabled.
func Build(source Source, entryID string) []*Sensor {
	snap := source.Snapshot()
	if snap == nil {
		return nil
	}
	var sensors []*Sensor
	for i, tank := range snap.Tanks {
		sensors = append(sensors,
			New(source, entryID, KindLevel, i),
			New(source, entryID, KindGallons, i),
			New(source, entryID, KindLiters, i),
		)
		if tank.TankLastPressure != nil {
			sensors = append(sensors, New(source, entryID, KindPressure, i))
		}
	}
	if snap.PricingEnabled {
		sensors = append(sensors, New(source, entryID, KindPrice, -1))
	}
	return sensors
}

// Registry holds the sensors created at setup, in creation order.
type Registry struct {
	mu      sync.RWMutex
	sensors []*Sensor
	byID    map[string]*Sensor
}

// NewRegistry indexes the given sensors by unique id.
func NewRegistry(sensors []*Sensor) *Registry {
	r := &Registry{byID: make(map[string]*Sensor, len(sensors))}
	r.Replace(sensors)
	return r
}

// Replace swaps the full sensor set, e.g. after the host entry is reloaded.
func (r *Registry) Replace(sensors []*Sensor) {
	byID := make(map[string]*Sensor, len(sensors))
	for _, s := range sensors {
		byID[s.UniqueID()] = s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sensors = sensors
	r.byID = byID
}

// Get returns the sensor with the given unique id.
func (r *Registry) Get(uniqueID string) (*Sensor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[uniqueID]
	return s, ok
}

// All returns the sensors in creation order.
func (r *Registry) All() []*Sensor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Sensor, len(r.sensors))
	copy(out, r.sensors)
	return out
}

// States computes the current state of every sensor.
func (r *Registry) States() []State {
	sensors := r.All()
	states := make([]State, 0, len(sensors))
	for _, s := range sensors {
		states = append(states, s.State())
	}
	return states
}
