package main

import (
	"fmt"

	"github.com/camden-git/moviearchive/repository"
	"github.com/spf13/cobra"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema and seed roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				roles, err := repository.NewRoleRepository(a.db).ListAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing roles: %w", err)
				}
				fmt.Printf("Database ready: %s\n", a.cfg.DatabasePath)
				for _, r := range roles {
					fmt.Printf("  role %d: %s\n", r.ID, r.Name)
				}
				return nil
			})
		},
	}
}
