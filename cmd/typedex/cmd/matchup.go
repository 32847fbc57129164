package cmd

import (
	"fmt"

	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/config"
	"github.com/corey/typedex/internal/domain/matchup"
	"github.com/spf13/cobra"
)

var matchupCmd = &cobra.Command{
	Use:   "matchup <type> [type]",
	Short: "Show attack effectiveness against one or two defending types",
	Long: "Shows how every attacking type fares against the defending types, grouped from ×4 down to immune.\n" +
		"Types may be given as display names (みず) or slugs (water).",
	Example: "  typedex matchup くさ どく\n  typedex matchup ground flying",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runMatchup,
}

func runMatchup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var result *socket.MatchupResult
	if client, ok := daemonClient(cfg); ok {
		result, err = client.Matchup(args...)
		if err != nil {
			return err
		}
	} else {
		// The chart is static, so no catalog or store is needed.
		sel, err := matchup.ParseSelection(args)
		if err != nil {
			return err
		}
		r := socket.NewMatchupResult(sel)
		result = &r
	}

	if jsonFlag {
		return printJSON(result)
	}
	fmt.Print(formatMatchup(stdoutStyles(), result))
	return nil
}
