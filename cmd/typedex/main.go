// typedex answers type-matchup questions and suggests creature names.
// Single binary: CLI, daemon, HTTP API and catalog collector.
package main

import (
	"os"

	"github.com/corey/typedex/cmd/typedex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
