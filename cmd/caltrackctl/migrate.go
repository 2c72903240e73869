package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caltrack/caltrack/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version|redo|reset]",
	Short:     "Run database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "version", "redo", "reset"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) == 1 {
			command = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := repository.OpenSQL(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.RunMigrations(cmd.Context(), db, command); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", command)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
