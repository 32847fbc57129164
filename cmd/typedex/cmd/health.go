package cmd

import (
	"fmt"

	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon status",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, ok := daemonClient(cfg)
	if !ok {
		fmt.Println("⚡ typedex daemon is not running")
		return nil
	}

	health, err := client.Health()
	if err != nil {
		return err
	}
	if jsonFlag {
		return printJSON(health)
	}
	fmt.Print(formatHealth(stdoutStyles(), health))
	return nil
}
