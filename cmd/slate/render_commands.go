package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slate/internal/render"
	"slate/internal/studio"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Inspect and follow render jobs",
	}

	renderCmd.AddCommand(newRenderListCommand(ctx))
	renderCmd.AddCommand(newRenderWatchCommand(ctx))

	return renderCmd
}

func newRenderListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.studioClient()
			if err != nil {
				return err
			}
			jobs, err := client.ListRenderJobs(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No render jobs")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				title := ""
				if job.Session != nil {
					title = job.Session.Title
				}
				rows = append(rows, []string{
					job.ID,
					title,
					job.Status,
					fmt.Sprintf("%d%%", job.Progress),
					job.ErrorMessage,
				})
			}
			table := renderTable(
				[]string{"ID", "Session", "Status", "Progress", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only list jobs with these statuses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit jobs as JSON")
	return cmd
}

func newRenderWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow a render job until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.studioClient()
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			interval := time.Duration(cfg.Workflow.RenderPollInterval) * time.Second

			out := cmd.OutOrStdout()
			watcher := render.NewWatcher(client, interval, ctx.loggerValue())
			final, err := watcher.Watch(cmd.Context(), strings.TrimSpace(args[0]), func(update render.Update) {
				fmt.Fprintln(out, formatRenderUpdate(update.Job))
			})
			if err != nil {
				return err
			}
			if final.Status == "failed" && final.ErrorMessage != "" {
				return fmt.Errorf("render failed: %s", final.ErrorMessage)
			}
			return nil
		},
	}
}

func formatRenderUpdate(job studio.RenderJob) string {
	line := fmt.Sprintf("%s  %s %3d%%", job.ID, job.Status, job.Progress)
	if job.ErrorMessage != "" {
		line += "  " + job.ErrorMessage
	}
	return line
}
