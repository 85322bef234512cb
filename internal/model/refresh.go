package model

import "time"

// RefreshTrigger indicates what started a refresh cycle.
type RefreshTrigger string

const (
	TriggerSetup     RefreshTrigger = "SETUP"
	TriggerScheduled RefreshTrigger = "SCHEDULED"
	TriggerManual    RefreshTrigger = "MANUAL"
)

// RefreshState is the coordinator's position in its refresh cycle.
type RefreshState string

const (
	StateIdle       RefreshState = "idle"
	StateRefreshing RefreshState = "refreshing"
	StateSuccess    RefreshState = "success"
	StateFailed     RefreshState = "failed"
)

// RefreshResult describes one completed refresh cycle.
type RefreshResult struct {
	CycleID  string
	Trigger  RefreshTrigger
	State    RefreshState // StateSuccess or StateFailed
	Snapshot *Snapshot    // the published snapshot; on failure the one still in place
	Err      error
	Started  time.Time
	Duration time.Duration
}
