// Package status generates the status file for typedex.
//
// The daemon writes a JSON status file after every successful catalog load
// so shell prompts and scripts can show what is being served without talking
// to the socket.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/typedex/internal/domain/catalog"
)

// StatusFile is the filename within the data directory where status JSON is written.
const StatusFile = "status.json"

// StatusData is the JSON payload the daemon writes.
type StatusData struct {
	Entries        int       `json:"entries"`
	Duplicates     int       `json:"duplicates"`
	DualTyped      int       `json:"dual_typed"`
	Source         string    `json:"source"`
	LoadedAt       time.Time `json:"loaded_at"`
	Reloads        int64     `json:"reloads"`
	ReloadFailures int64     `json:"reload_failures"`
	PID            int       `json:"pid"`
}

// Generate produces a StatusData for the catalog currently served.
func Generate(cat *catalog.Catalog, reloads, failures int64) *StatusData {
	sd := &StatusData{
		Reloads:        reloads,
		ReloadFailures: failures,
		PID:            os.Getpid(),
	}
	if cat == nil {
		return sd
	}
	st := cat.Stats()
	sd.Entries = st.Entries
	sd.Duplicates = st.Duplicates
	sd.DualTyped = st.DualTyped
	sd.Source = cat.Source()
	sd.LoadedAt = cat.LoadedAt()
	return sd
}

// WriteJSON writes the status data as JSON to a file. The file is replaced
// atomically so readers never see a partial write.
func WriteJSON(path string, data *StatusData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename status: %w", err)
	}
	return nil
}

// ReadJSON reads a status file written by WriteJSON.
func ReadJSON(path string) (*StatusData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sd StatusData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &sd, nil
}
