package cmd

import (
	"sort"

	"repoaccess-backend/cmd/accessions-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the repositories accessions can be resolved against.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		registered := resolver.Sources()
		sort.Slice(registered, func(i, j int) bool {
			return registered[i] < registered[j]
		})

		t := utils.NewTable()
		t.AppendHeader(table.Row{"source"})
		for _, source := range registered {
			t.AppendRow(table.Row{source})
		}
		t.Render()
	},
}
