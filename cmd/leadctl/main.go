// Package main implements leadctl, the operator CLI for the lead intake stack.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Operator CLI for the Paramanu lead intake stack",
	Long: `leadctl runs maintenance tasks against the intake database and the
notification relay. Settings are read from the environment and .env, the
same way the servers read them.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(renderCmd)
}
