package cmd

import (
	"fmt"
	"os"

	"github.com/kingoIII/Ruido/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ruido",
	Short: "Ruido is a platform for sharing audio samples.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
