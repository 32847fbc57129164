package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var mentionsCmd = &cobra.Command{
	Use:     "mentions <text>...",
	Short:   "Find catalog names mentioned in text",
	Long:    "Scans text for catalog names in one pass. Hiragana matches katakana; overlapping names resolve to the longest.",
	Example: "  typedex mentions \"ぴかちゅうとゼニガメでいく\"",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runMentions,
}

func runMentions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")

	var result *socket.MentionsResult
	if client, ok := daemonClient(cfg); ok {
		result, err = client.Mentions(text)
		if err != nil {
			return err
		}
	} else {
		a, err := openLocal(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		start := time.Now()
		mentions, err := a.Mentions(text)
		if err != nil {
			return err
		}
		result = &socket.MentionsResult{
			Mentions: mentions,
			Count:    len(mentions),
			Elapsed:  time.Since(start).String(),
		}
	}

	if jsonFlag {
		return printJSON(result)
	}
	fmt.Print(formatMentions(stdoutStyles(), text, result))
	return nil
}
