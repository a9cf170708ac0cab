package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/drape/internal/adapters/repository"
	"github.com/okian/drape/pkg/logger"
)

var errNoDatabase = errors.New("database_url is not set")

type migrateAction func(cmd *cobra.Command, m *repository.Migrator) error

func newMigrateCmd(rc *runtimeConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long:  `Applies or reverts the embedded schema migrations against database_url.`,
	}

	run := func(action migrateAction) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) (err error) {
			if rc.cfg.DatabaseURL == "" {
				return errNoDatabase
			}
			m, err := repository.NewMigrator(rc.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, m.Close()) }()
			return action(cmd, m)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *repository.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				logger.Get().Info(cmd.Context(), "migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *repository.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				logger.Get().Info(cmd.Context(), "migrations reverted")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *repository.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return err
			}),
		},
	)
	return cmd
}
