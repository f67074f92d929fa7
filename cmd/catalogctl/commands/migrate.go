package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookreview-backend/internal/config"
	"bookreview-backend/internal/infrastructure/database"
)

var (
	// Migrate flags
	steps int
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply or roll back the schema migrations embedded in the binary.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the applied version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  catalogctl migrate down             # Roll back the last migration
  catalogctl migrate down --steps 2   # Roll back two migrations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			return printVersion(cmd, m)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
}

func withMigrator(fn func(*database.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(config.LoadDatabaseConfig(cfg).ConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func printVersion(cmd *cobra.Command, m *database.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %t\n", version, dirty)
	return nil
}
