package app

import (
	"os"
	"path/filepath"

	"github.com/corey/typedex/internal/domain/status"
)

// Paths holds all resolved filesystem paths under the data directory.
// All fields are pre-computed strings.
type Paths struct {
	Root   string // ~/.typedex/
	DB     string // ~/.typedex/typedex.db
	Status string // ~/.typedex/status.json

	LogDir    string // ~/.typedex/log/
	DaemonLog string // ~/.typedex/log/typedex.log

	RunDir   string // ~/.typedex/run/
	PIDFile  string // ~/.typedex/run/daemon.pid
	PortFile string // ~/.typedex/run/http.addr

	CatalogDir  string // ~/.typedex/catalog/
	CatalogFile string // ~/.typedex/catalog/pokemon.json (collector output)
}

// NewPaths constructs all resolved paths from a data directory.
func NewPaths(dataDir string) *Paths {
	root := dataDir
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "typedex.db"),
		Status: filepath.Join(root, status.StatusFile),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "typedex.log"),

		RunDir:   filepath.Join(root, "run"),
		PIDFile:  filepath.Join(root, "run", "daemon.pid"),
		PortFile: filepath.Join(root, "run", "http.addr"),

		CatalogDir:  filepath.Join(root, "catalog"),
		CatalogFile: filepath.Join(root, "catalog", "pokemon.json"),
	}
}

// EnsureDirs creates all subdirectories under the data directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	dirs := []string{
		p.Root,
		p.LogDir,
		p.RunDir,
		p.CatalogDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (PID file and port file).
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
	os.Remove(p.PortFile)
}
