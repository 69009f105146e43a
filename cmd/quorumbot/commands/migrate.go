package commands

import (
	"github.com/spf13/cobra"

	"quorum/internal/app/bootstrap"
)

var migrateConfigPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Reconcile the database schema",
	Long: `Connect to PostgreSQL, reconcile the schema for the bot's tables
and exit. The run command also migrates on startup; this command exists
for deployments that apply schema changes separately.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateConfigPath, "config", "c", "", "Path to the YAML config file (defaults plus environment when omitted)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := bootstrap.Migrate(migrateConfigPath); err != nil {
		return err
	}
	success.Println("✓ database schema migrated")
	return nil
}
