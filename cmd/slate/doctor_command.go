package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slate/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local environment and backend connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{
					result.Name,
					passFail(result.Passed, colorize),
					result.Detail,
				})
			}
			table := renderTable(
				[]string{"Check", "Result", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(out, table)

			if !preflight.AllPassed(results) {
				return fmt.Errorf("preflight checks failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
