package cmd

import (
	"github.com/kingoIII/Ruido/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ruido HTTP server",
	Long:  "Start the ruido API server: track search, uploads, likes and play counting.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
