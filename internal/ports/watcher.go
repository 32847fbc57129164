package ports

// Watcher monitors the catalog file and triggers a reload when it changes.
// The adapter (fsnotify) must ignore unrelated files in the same directory
// and collapse bursts of events into one callback.
type Watcher interface {
	// Watch starts monitoring path. onChange is called after the file has been
	// written, created or renamed into place and events have settled. The
	// callback may be invoked from any goroutine. Returns an error if the
	// containing directory doesn't exist.
	Watch(path string, onChange func()) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
