package cmd

import (
	"fmt"
	"os"

	"repoaccess-backend/lib/resolve"
	"repoaccess-backend/lib/sources"

	"github.com/spf13/cobra"
)

var resolver *resolve.Resolver

var rootCmd = &cobra.Command{
	Use:   "accessions-cli",
	Short: "accessions-cli checks the public accessibility of dataset accessions across scientific repositories.",
}

func Execute() {
	resolver = sources.DefaultResolver()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
