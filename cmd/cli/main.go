package main

import (
	"fmt"
	"os"

	"github.com/fmpulse/fmpulse/cmd/cli/admin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddGroup(admin.Group)
	rootCmd.AddCommand(admin.Rescore)
	rootCmd.AddCommand(admin.Lookup)
	rootCmd.AddCommand(admin.Mint)
}

var rootCmd = &cobra.Command{
	Use:  "fmpulse-cli",
	Long: `Command line utilities for operating the FM Pulse assessment backend`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
