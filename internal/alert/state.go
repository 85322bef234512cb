package alert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"TankSentinel/internal/model"
)

// LoadState reads the alert state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*model.AlertState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.AlertState{Tanks: map[string]model.TankAlert{}}, nil
		}
		return nil, err
	}
	var state model.AlertState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Tanks == nil {
		state.Tanks = map[string]model.TankAlert{}
	}
	return &state, nil
}

// SaveState writes the alert state to a JSON file, creating its directory if needed.
func SaveState(filePath string, state *model.AlertState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
