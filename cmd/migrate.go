package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/migrator"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление миграциями базы данных",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Применить все новые миграции",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), *configPath, func(m *migrator.Migrator) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Откатить миграции (по умолчанию одну)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("invalid steps %q: must be a positive integer", args[0])
					}
					steps = n
				}
				return withMigrator(cmd.Context(), *configPath, func(m *migrator.Migrator) error {
					return m.Down(steps)
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Принудительно выставить версию схемы",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return withMigrator(cmd.Context(), *configPath, func(m *migrator.Migrator) error {
					return m.Force(version)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Показать текущую версию схемы",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), *configPath, func(m *migrator.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					cmd.Printf("version=%d dirty=%t\n", version, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func withMigrator(ctx context.Context, configPath string, fn func(m *migrator.Migrator) error) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := openDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	m, err := migrator.New(db, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	return fn(m)
}
