package recorder

import (
	"time"

	"TankSentinel/internal/model"
)

// RefreshEvent is one completed refresh cycle. Trigger and State carry the
// coordinator's RefreshTrigger and RefreshState values.
type RefreshEvent struct {
	CycleID    string        `json:"cycle_id"`
	Trigger    string        `json:"trigger"`
	State      string        `json:"state"`
	Error      string        `json:"error,omitempty"`
	TankCount  int           `json:"tank_count"`
	PriceFound bool          `json:"price_found"`
	Duration   time.Duration `json:"duration_ns"`
	Timestamp  time.Time     `json:"timestamp"`
}

// AlertEvent records a low-level alert that was announced.
type AlertEvent struct {
	TankID    string
	TankName  string
	Level     string // "NOTIFY_AT_1" or "NOTIFY_AT_2"
	Reading   float64
	Threshold float64
	Timestamp time.Time
}

// Recorder persists the refresh and alert history.
type Recorder interface {
	RecordRefresh(evt *RefreshEvent) error
	RecordAlert(evt *AlertEvent) error
	RecentRefreshes(limit int) ([]RefreshEvent, error)
	Close() error
}

// NewRefreshEvent converts a coordinator result into a log row.
func NewRefreshEvent(res model.RefreshResult) *RefreshEvent {
	evt := &RefreshEvent{
		CycleID:   res.CycleID,
		Trigger:   string(res.Trigger),
		State:     string(res.State),
		Duration:  res.Duration,
		Timestamp: res.Started,
	}
	if res.Err != nil {
		evt.Error = res.Err.Error()
	}
	if res.State == model.StateSuccess {
		evt.TankCount = res.Snapshot.TankCount()
		evt.PriceFound = res.Snapshot != nil && res.Snapshot.Price != nil
	}
	return evt
}
