package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Suggest catalog names containing a query",
	Long:  "Suggests up to 10 names containing the query. Hiragana and katakana match each other; shorter names rank first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	query := args[0]

	var result *socket.SearchResult
	if client, ok := daemonClient(cfg); ok {
		result, err = client.Search(query)
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
		entries, err := a.Search(query)
		if err != nil {
			return err
		}
		result = &socket.SearchResult{
			Results: entries,
			Count:   len(entries),
			Elapsed: time.Since(start).String(),
		}
	}

	if jsonFlag {
		return printJSON(result)
	}
	fmt.Print(formatSearch(stdoutStyles(), query, result))
	return nil
}

// printJSON writes v to stdout as indented JSON with kana left unescaped.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func stdoutStyles() *styles {
	s := newStyles(os.Stdout, resolveColor(colorFlag, noColorFlag))
	s.width = terminalWidth()
	return s
}
