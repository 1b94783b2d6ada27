package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/SarthakGarg19/social-support-ai/internal/container"
	"github.com/SarthakGarg19/social-support-ai/pkg/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			dbCfg := cfg.ToContainerConfig().Database
			bundle, err := container.ProvideDatabase(&dbCfg, logger)
			if err != nil {
				return err
			}
			defer bundle.Conn.Close()

			applied, err := database.NewMigrator(bundle.Conn, logger).AppliedVersions()
			if err != nil {
				return err
			}

			versions := make([]int, 0, len(applied))
			for v := range applied {
				versions = append(versions, v)
			}
			sort.Ints(versions)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema versions %v\n", dbCfg.Path, versions)
			return err
		},
	}
}
