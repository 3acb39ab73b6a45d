package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"repoaccess-backend/cmd/accessions-cli/utils"
	"repoaccess-backend/lib/resolve"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var outputJson bool

func init() {
	resolveCmd.Flags().BoolVar(&outputJson, "json", false, "emit the raw result as json instead of a table")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <source> <accession>",
	Short: "Resolve the access state and file listing of an accession.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		source := resolve.Source(args[0])
		accession := args[1]

		result, err := resolver.Resolve(cmd.Context(), source, accession)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		if outputJson {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
			fmt.Println(string(out))
			return
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"accession", "access", "raw code"})
		t.AppendRow(table.Row{accession, result.Access, result.RawCode})
		t.Render()

		if result.Files == nil {
			fmt.Println("file listing unavailable")
			return
		}

		t = utils.NewTable()
		t.AppendHeader(table.Row{"name", "size", "last modified"})
		for _, file := range result.Files {
			t.AppendRow(table.Row{file.Name, file.Size, file.LastModified})
		}
		t.Render()
	},
}
