package cmd

import (
	"fmt"

	"github.com/corey/typedex/internal/domain/typechart"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the 18 types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

type typeJSON struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func runTypes(cmd *cobra.Command, args []string) error {
	if jsonFlag {
		out := make([]typeJSON, 0, typechart.NumLabels)
		for _, l := range typechart.All() {
			out = append(out, typeJSON{Name: l.String(), Slug: l.Slug()})
		}
		return printJSON(out)
	}
	fmt.Print(formatTypes(stdoutStyles()))
	return nil
}
