package alert

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"TankSentinel/internal/model"
)

func f(v float64) *float64 { return &v }

func tank(id string, level float64) model.TankRecord {
	return model.TankRecord{
		ID:        model.FlexString(id),
		Level:     f(level),
		NotifyAt1: f(30),
		NotifyAt2: f(15),
	}
}

func snapshotOf(tanks ...model.TankRecord) *model.Snapshot {
	return &model.Snapshot{Tanks: tanks, FetchedAt: time.Now()}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		level     float64
		want      model.AlertLevel
		threshold float64
	}{
		{80, model.AlertNone, 0},
		{30, model.AlertFirst, 30},
		{22, model.AlertFirst, 30},
		{15, model.AlertSecond, 15},
		{3, model.AlertSecond, 15},
	}
	for _, tc := range cases {
		tk := tank("a", tc.level)
		got, threshold := Classify(&tk)
		if got != tc.want || threshold != tc.threshold {
			t.Errorf("level %.0f: expected %s@%.0f, got %s@%.0f", tc.level, tc.want, tc.threshold, got, threshold)
		}
	}

	noThresholds := model.TankRecord{ID: "b", Level: f(1)}
	if got, _ := Classify(&noThresholds); got != model.AlertNone {
		t.Errorf("expected no alert without thresholds, got %s", got)
	}
	zero := model.TankRecord{ID: "c", Level: f(0), NotifyAt1: f(0)}
	if got, _ := Classify(&zero); got != model.AlertNone {
		t.Errorf("expected zero threshold to be disabled, got %s", got)
	}
}

func TestEvaluate_FiresOncePerCrossing(t *testing.T) {
	state := &model.AlertState{Tanks: map[string]model.TankAlert{}}

	if got := Evaluate(snapshotOf(tank("a", 50)), state); len(got) != 0 {
		t.Fatalf("expected no alerts above thresholds, got %v", got)
	}

	got := Evaluate(snapshotOf(tank("a", 28)), state)
	if len(got) != 1 || got[0].Level != model.AlertFirst || got[0].Threshold != 30 {
		t.Fatalf("expected first-threshold alert, got %+v", got)
	}
	if got[0].TankName != "Tank a" {
		t.Errorf("expected fallback name, got %q", got[0].TankName)
	}

	if got := Evaluate(snapshotOf(tank("a", 25)), state); len(got) != 0 {
		t.Fatalf("expected no repeat alert, got %v", got)
	}

	got = Evaluate(snapshotOf(tank("a", 12)), state)
	if len(got) != 1 || got[0].Level != model.AlertSecond {
		t.Fatalf("expected second-threshold alert, got %+v", got)
	}
	if state.Tanks["a"].LastLevel != 12 {
		t.Errorf("expected last level 12, got %.0f", state.Tanks["a"].LastLevel)
	}
}

func TestEvaluate_RearmsAfterRefill(t *testing.T) {
	state := &model.AlertState{Tanks: map[string]model.TankAlert{}}
	Evaluate(snapshotOf(tank("a", 10)), state)

	if got := Evaluate(snapshotOf(tank("a", 90)), state); len(got) != 0 {
		t.Fatalf("refill must not alert, got %v", got)
	}
	if state.Tanks["a"].Level != model.AlertNone {
		t.Fatalf("expected tank re-armed, got %s", state.Tanks["a"].Level)
	}

	got := Evaluate(snapshotOf(tank("a", 29)), state)
	if len(got) != 1 || got[0].Level != model.AlertFirst {
		t.Errorf("expected alert after re-arm, got %+v", got)
	}
}

func TestEvaluate_JumpStraightToSecond(t *testing.T) {
	state := &model.AlertState{Tanks: map[string]model.TankAlert{}}
	got := Evaluate(snapshotOf(tank("a", 5), tank("b", 60)), state)
	if len(got) != 1 || got[0].TankID != "a" || got[0].Level != model.AlertSecond {
		t.Errorf("expected a single second-threshold alert for a, got %+v", got)
	}
}

func TestManager_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "alerts.json")

	var sent []Alert
	m, err := NewManager(path, zap.NewNop(), func(a Alert) { sent = append(sent, a) })
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	m.Check(snapshotOf(tank("a", 20)))
	if len(sent) != 1 {
		t.Fatalf("expected 1 sent alert, got %d", len(sent))
	}

	restarted, err := NewManager(path, zap.NewNop(), func(a Alert) { sent = append(sent, a) })
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}
	restarted.Check(snapshotOf(tank("a", 19)))
	if len(sent) != 1 {
		t.Errorf("expected no repeat after restart, got %d alerts", len(sent))
	}
	if st := restarted.GetState(); st.Tanks["a"].Level != model.AlertFirst {
		t.Errorf("expected persisted first level, got %s", st.Tanks["a"].Level)
	}
}

func TestManager_ListenerIgnoresFailures(t *testing.T) {
	var sent int
	m, err := NewManager(filepath.Join(t.TempDir(), "alerts.json"), zap.NewNop(), func(Alert) { sent++ })
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	listener := m.Listener()
	listener(model.RefreshResult{State: model.StateFailed, Snapshot: snapshotOf(tank("a", 5))})
	if sent != 0 {
		t.Fatalf("failed refresh must not alert, got %d", sent)
	}
	listener(model.RefreshResult{State: model.StateSuccess, Snapshot: snapshotOf(tank("a", 5))})
	if sent != 1 {
		t.Errorf("expected 1 alert after success, got %d", sent)
	}
}
