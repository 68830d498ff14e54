// Package session persists the user's view (symbol, period and enabled
// indicators) so a restarted service comes back where it left off.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"StockLens/internal/model"
)

// State is the persisted part of the market view. Prices and indicators are
// never stored; they are fetched again on restore.
type State struct {
	Symbol    string                  `json:"symbol"`
	Period    model.TimePeriod        `json:"period"`
	Settings  model.IndicatorSettings `json:"settings"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// LoadState reads the session from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the session to a JSON file, creating its directory.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
