package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"slate/internal/media"
	"slate/internal/syncreview"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Review and adjust multi-camera sync results",
	}

	syncCmd.AddCommand(newSyncReviewCommand(ctx))
	syncCmd.AddCommand(newSyncApproveCommand(ctx))
	syncCmd.AddCommand(newSyncCorrectCommand(ctx))

	return syncCmd
}

func newSyncReviewCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "review <session-id>",
		Short: "Show the alignment review plan for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.studioClient()
			if err != nil {
				return err
			}
			session, err := client.GetRecordingSession(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			plan := syncreview.BuildPlan(session)
			if asJSON {
				return writeJSON(cmd, plan)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s (anchor camera %s, operator status %s)\n",
				plan.SessionID, plan.Anchor, session.OperatorStatus)
			fmt.Fprintln(out, renderPlanTable(plan))
			if plan.AllConfident() {
				fmt.Fprintln(out, "All cameras look good; `slate sync approve` keeps the computed offsets")
			} else {
				fmt.Fprintln(out, "Low-confidence cameras need a manual check before approval")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the plan as JSON")
	return cmd
}

func newSyncApproveCommand(ctx *commandContext) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "approve <session-id>",
		Short: "Approve the computed offsets as-is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.studioClient()
			if err != nil {
				return err
			}
			session, err := client.GetRecordingSession(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			cockpit := syncreview.NewCockpit(session, client, ctx.loggerValue())
			if err := cockpit.Approve(cmd.Context(), notes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved sync for session %s\n", session.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Optional note recorded with the approval")
	return cmd
}

func newSyncCorrectCommand(ctx *commandContext) *cobra.Command {
	var setFlags []string
	var nudgeFlags []string
	var notes string

	cmd := &cobra.Command{
		Use:   "correct <session-id>",
		Short: "Submit corrected offsets for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(setFlags) == 0 && len(nudgeFlags) == 0 {
				return fmt.Errorf("nothing to correct: pass --set and/or --nudge")
			}

			client, err := ctx.studioClient()
			if err != nil {
				return err
			}
			session, err := client.GetRecordingSession(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			cockpit := syncreview.NewCockpit(session, client, ctx.loggerValue())
			out := cmd.OutOrStdout()

			for _, value := range setFlags {
				angle, ms, err := parseOffsetSpec(value)
				if err != nil {
					return err
				}
				cockpit.SetOffset(angle, ms)
				fmt.Fprintf(out, "Camera %s set to %dms\n", angle, cockpit.EffectiveOffset(angle))
			}
			for _, value := range nudgeFlags {
				angle, delta, err := parseOffsetSpec(value)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Camera %s nudged to %dms\n", angle, cockpit.Nudge(angle, delta))
			}

			if err := cockpit.Correct(cmd.Context(), notes); err != nil {
				return err
			}
			fmt.Fprintf(out, "Corrected sync for session %s\n", session.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&setFlags, "set", nil, "Set an absolute offset, e.g. B=120")
	cmd.Flags().StringSliceVar(&nudgeFlags, "nudge", nil, "Nudge an offset by a delta in ms, e.g. C=-100")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional note recorded with the correction")
	return cmd
}

// parseOffsetSpec parses an ANGLE=MS pair such as "B=120" or "C=-500".
func parseOffsetSpec(value string) (media.CameraAngle, int, error) {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid offset %q: expected ANGLE=MS", value)
	}
	angle, ok := media.ParseAngle(parts[0])
	if !ok {
		return "", 0, fmt.Errorf("unknown camera angle %q", parts[0])
	}
	ms, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", 0, fmt.Errorf("invalid offset %q: %w", value, err)
	}
	return angle, ms, nil
}

func renderPlanTable(plan syncreview.Plan) string {
	rows := make([][]string, 0, len(plan.Cameras))
	for _, camera := range plan.Cameras {
		flag := ""
		if camera.NeedsAdjuster {
			flag = "adjust"
		}
		rows = append(rows, []string{
			string(camera.Angle),
			fmt.Sprintf("%d", camera.OffsetMS),
			fmt.Sprintf("%.1f", camera.Confidence),
			string(camera.Classification),
			flag,
		})
	}
	return renderTable(
		[]string{"Camera", "Offset (ms)", "Confidence", "Classification", "Flag"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}
