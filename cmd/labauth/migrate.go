package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/labauth/internal/store/pg"
)

func newMigrateCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|status]",
		Short:     "Aplica las migraciones SQL embebidas (solo postgres)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return errors.New("migrate requires storage.driver=postgres")
			}
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			ctx := cmd.Context()
			st, err := pg.Open(ctx, cfg.Storage.DSN, pg.PoolOptions{MaxOpenConns: 2})
			if err != nil {
				return err
			}
			defer st.Close()
			m := pg.NewMigrator(st.DB())

			switch action {
			case "up":
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			case "status":
				status, err := m.Status(ctx)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(status))
				for k := range status {
					names = append(names, k)
				}
				sort.Strings(names)
				for _, name := range names {
					mark := "pending"
					if status[name] {
						mark = "applied"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", name, mark)
				}
			default:
				return fmt.Errorf("unknown action %q (up|status)", action)
			}
			return nil
		},
	}
	return cmd
}
