package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/typedex/internal/adapters/socket"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock checks the daemon state and returns actionable guidance
// when a bbolt open fails due to lock contention.
func diagnoseDBLock(dataDir string) string {
	sockPath := socket.SocketPath(dataDir)
	client := socket.NewClient(sockPath)

	if client.Ping() {
		return "catalog store is locked by the running daemon\n" +
			"  → stop it first:  typedex daemon stop\n" +
			"  → then retry your command"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("catalog store is locked and the daemon socket is not responding\n"+
			"  → a previous daemon may have crashed\n"+
			"  → find the process:  ps aux | grep 'typedex serve'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return "catalog store is locked by another process\n" +
		"  → find the process:  ps aux | grep typedex\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
