package cmd

import (
	"log"

	"github.com/kingoIII/Ruido/config"
	"github.com/kingoIII/Ruido/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  "Run GORM auto-migration plus the raw search DDL (pg_trgm, tsvector column, GIN indexes).",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.Migrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
