package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/udayip/portfolio/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands for the sql store",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runMigration(database.RunMigrations); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runMigration(database.RollbackMigration); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migration rolled back successfully")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			version uint
			dirty   bool
		)
		err := runMigration(func(sqlDB *sql.DB, driver string) error {
			var err error
			version, dirty, err = database.Version(sqlDB, driver)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

// runMigration connects with the configured database and runs step against it.
func runMigration(step func(sqlDB *sql.DB, driver string) error) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(databaseConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	return step(sqlDB, cfg.Database.Driver)
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
