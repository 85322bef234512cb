package alert

import "TankSentinel/internal/model"

// Classify returns the alert level a tank is currently at and the threshold
// that put it there. The second threshold wins when both are crossed.
func Classify(tank *model.TankRecord) (model.AlertLevel, float64) {
	if tank.Level == nil {
		return model.AlertNone, 0
	}
	level := *tank.Level
	if tank.NotifyAt2 != nil && *tank.NotifyAt2 > 0 && level <= *tank.NotifyAt2 {
		return model.AlertSecond, *tank.NotifyAt2
	}
	if tank.NotifyAt1 != nil && *tank.NotifyAt1 > 0 && level <= *tank.NotifyAt1 {
		return model.AlertFirst, *tank.NotifyAt1
	}
	return model.AlertNone, 0
}

// Alert is a threshold crossing that should be announced.
type Alert struct {
	TankID    string
	TankName  string
	Level     model.AlertLevel
	Reading   float64
	Threshold float64
}

// Evaluate compares every tank in snap against the previously announced levels
// in state and returns the alerts to send. state is updated in place: a tank
// that dropped further is raised to its new level, and a tank that refilled
// above a threshold is re-armed.
func Evaluate(snap *model.Snapshot, state *model.AlertState) []Alert {
	if snap == nil {
		return nil
	}
	var alerts []Alert
	for i := range snap.Tanks {
		tank := &snap.Tanks[i]
		if tank.ID == "" || tank.Level == nil {
			continue
		}
		id := tank.ID.String()
		current, threshold := Classify(tank)
		prev := state.Tanks[id]

		if current > prev.Level {
			name, ok := tank.DisplayName()
			if !ok {
				name = "Tank " + id
			}
			alerts = append(alerts, Alert{
				TankID:    id,
				TankName:  name,
				Level:     current,
				Reading:   *tank.Level,
				Threshold: threshold,
			})
			prev.AlertedAt = snap.FetchedAt
		}
		prev.Level = current
		prev.LastLevel = *tank.Level
		state.Tanks[id] = prev
	}
	return alerts
}
