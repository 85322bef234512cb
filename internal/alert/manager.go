package alert

import (
	"sync"

	"go.uber.org/zap"

	"TankSentinel/internal/model"
)

// Sink receives alerts produced by the Manager.
type Sink func(a Alert)

// Manager tracks announced alerts across refreshes and persists them so a
// restart does not repeat notifications.
type Manager struct {
	mu       sync.Mutex
	state    *model.AlertState
	filePath string
	sinks    []Sink
	logger   *zap.Logger
}

// NewManager creates a Manager, loading state from disk.
func NewManager(filePath string, logger *zap.Logger, sinks ...Sink) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{state: state, filePath: filePath, sinks: sinks, logger: logger.Named("alert")}, nil
}

// Check evaluates the snapshot and dispatches any new alerts to the sinks.
func (m *Manager) Check(snap *model.Snapshot) []Alert {
	m.mu.Lock()
	alerts := Evaluate(snap, m.state)
	if err := SaveState(m.filePath, m.state); err != nil {
		m.logger.Error("failed to save alert state", zap.Error(err))
	}
	m.mu.Unlock()

	for _, a := range alerts {
		m.logger.Info("low tank level",
			zap.String("tank_id", a.TankID),
			zap.String("level", a.Level.String()),
			zap.Float64("reading", a.Reading),
			zap.Float64("threshold", a.Threshold))
		for _, sink := range m.sinks {
			sink(a)
		}
	}
	return alerts
}

// GetState returns a copy of the current alert state.
func (m *Manager) GetState() model.AlertState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := model.AlertState{Tanks: make(map[string]model.TankAlert, len(m.state.Tanks)), UpdatedAt: m.state.UpdatedAt}
	for k, v := range m.state.Tanks {
		out.Tanks[k] = v
	}
	return out
}

// Listener returns a coordinator listener that checks every successful snapshot.
func (m *Manager) Listener() func(model.RefreshResult) {
	return func(res model.RefreshResult) {
		if res.State != model.StateSuccess {
			return
		}
		m.Check(res.Snapshot)
	}
}
