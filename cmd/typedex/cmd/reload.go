package cmd

import (
	"errors"
	"fmt"

	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Make the daemon re-read its catalog",
	Long:  "Re-reads the catalog source. On failure the daemon keeps serving the previous catalog.",
	RunE:  runReload,
}

func runReload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, ok := daemonClient(cfg)
	if !ok {
		return errors.New("daemon is not running (start it with: typedex serve)")
	}

	result, err := client.Reload()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if jsonFlag {
		return printJSON(result)
	}
	fmt.Printf("⚡ reloaded %d entries from %s │ %s\n", result.Entries, result.Source, result.Elapsed)
	return nil
}
