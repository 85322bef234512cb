package model

import "time"

// AlertLevel is how far below its notification thresholds a tank has fallen.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertFirst
	AlertSecond
)

func (a AlertLevel) String() string {
	switch a {
	case AlertFirst:
		return "NOTIFY_AT_1"
	case AlertSecond:
		return "NOTIFY_AT_2"
	default:
		return "NONE"
	}
}

// AlertState tracks which thresholds have already been announced per tank.
type AlertState struct {
	Tanks     map[string]TankAlert `json:"tanks"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// TankAlert is the persisted alert status of a single tank.
type TankAlert struct {
	Level     AlertLevel `json:"level"`
	LastLevel float64    `json:"last_level"`
	AlertedAt time.Time  `json:"alerted_at"`
}
