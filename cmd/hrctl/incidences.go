package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/incidence"
)

func incidencesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "incidences",
		Short: "Validate the incidence table and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = os.Getenv("INCIDENCE_TABLE_PATH")
			}
			if path == "" {
				path = "config/incidences.yaml"
			}

			table, err := incidence.Load(path)
			if err != nil {
				return err
			}
			if table.Len() == 0 {
				return fmt.Errorf("%s: %w", path, incidence.ErrEmptyTable)
			}

			out := cmd.OutOrStdout()
			for _, name := range table.Names() {
				opts := table.Options(name)
				if len(opts) == 0 {
					fmt.Fprintf(out, "%s: (no corrections)\n", name)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(opts, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "table path (default $INCIDENCE_TABLE_PATH or config/incidences.yaml)")
	return cmd
}
