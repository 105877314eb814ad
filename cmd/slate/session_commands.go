package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slate/internal/drafts"
	"slate/internal/media"
	"slate/internal/sessions"
	"slate/internal/uploads"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Create multi-camera recording sessions",
	}

	sessionCmd.AddCommand(newSessionCreateCommand(ctx))
	sessionCmd.AddCommand(newSessionResumeCommand(ctx))
	sessionCmd.AddCommand(newSessionDraftsCommand(ctx))

	return sessionCmd
}

// wizardFlags collects every wizard input a single invocation can supply.
// Unset flags leave the corresponding draft fields untouched, so a session
// can be assembled across several runs.
type wizardFlags struct {
	title       string
	date        string
	description string
	eventType   string
	anchor      string
	cameraFiles map[media.CameraAngle]*string
	confirm     bool
}

func registerWizardFlags(cmd *cobra.Command, flags *wizardFlags) {
	flags.cameraFiles = map[media.CameraAngle]*string{
		media.AngleA: new(string),
		media.AngleB: new(string),
		media.AngleC: new(string),
	}
	cmd.Flags().StringVar(&flags.title, "title", "", "Session title")
	cmd.Flags().StringVar(&flags.date, "date", "", "Recording date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.description, "description", "", "Session description")
	cmd.Flags().StringVar(&flags.eventType, "event-type", "", "Event type (service, teaching, podcast, other)")
	cmd.Flags().StringVar(&flags.anchor, "anchor", "", "Anchor camera angle (A, B, or C)")
	cmd.Flags().StringVar(flags.cameraFiles[media.AngleA], "camera-a", "", "Camera A source file")
	cmd.Flags().StringVar(flags.cameraFiles[media.AngleB], "camera-b", "", "Camera B source file")
	cmd.Flags().StringVar(flags.cameraFiles[media.AngleC], "camera-c", "", "Camera C source file")
	cmd.Flags().BoolVar(&flags.confirm, "confirm", false, "Create the session once all three cameras are uploaded")
}

func newSessionCreateCommand(ctx *commandContext) *cobra.Command {
	var flags wizardFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new session draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, ctx, flags, "")
		},
	}
	registerWizardFlags(cmd, &flags)
	return cmd
}

func newSessionResumeCommand(ctx *commandContext) *cobra.Command {
	var flags wizardFlags

	cmd := &cobra.Command{
		Use:   "resume [draft-id]",
		Short: "Resume the latest draft, or a specific one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draftID := "latest"
			if len(args) == 1 {
				draftID = strings.TrimSpace(args[0])
			}
			return runWizard(cmd, ctx, flags, draftID)
		},
	}
	registerWizardFlags(cmd, &flags)
	return cmd
}

func newSessionDraftsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "drafts",
		Short: "List in-progress session drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := drafts.Open(ctx.configValue())
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No drafts")
				return nil
			}

			rows := make([][]string, 0, len(all))
			for _, draft := range all {
				rows = append(rows, []string{
					draft.ID,
					fmt.Sprintf("%d", draft.Step),
					draft.Title,
					fmt.Sprintf("%d/3", len(draft.AssetIDs)),
					draft.UpdatedAt.Format(time.RFC3339),
				})
			}
			table := renderTable(
				[]string{"ID", "Step", "Title", "Uploads", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func runWizard(cmd *cobra.Command, ctx *commandContext, flags wizardFlags, draftID string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	store, err := drafts.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	storage, err := uploads.NewStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	client, err := ctx.studioClient()
	if err != nil {
		return err
	}
	// cfg.Storage.Prefix belongs to the storage backend; the coordinator
	// namespaces keys under the raw-session layout on top of it.
	coordinator := uploads.NewCoordinator(storage, client, "sessions/raw", ctx.loggerValue())

	var wizard *sessions.Wizard
	switch draftID {
	case "":
		wizard, err = sessions.New(cmd.Context(), store, coordinator, client, ctx.loggerValue())
	case "latest":
		wizard, err = sessions.Resume(cmd.Context(), store, coordinator, client, ctx.loggerValue())
	default:
		wizard, err = sessions.ResumeByID(cmd.Context(), store, coordinator, client, ctx.loggerValue(), draftID)
	}
	if err != nil {
		return err
	}

	if err := applyMetadata(cmd.Context(), wizard, flags); err != nil {
		return err
	}
	uploadErr := runUploads(cmd, wizard, coordinator, flags)

	out := cmd.OutOrStdout()
	if uploadErr != nil {
		printDraftStatus(out, wizard, coordinator)
		return uploadErr
	}
	if flags.confirm {
		sessionID, err := wizard.Create(cmd.Context())
		if err != nil {
			printDraftStatus(out, wizard, coordinator)
			return err
		}
		fmt.Fprintf(out, "Created recording session %s\n", sessionID)
		return nil
	}

	printDraftStatus(out, wizard, coordinator)
	return nil
}

func applyMetadata(ctx context.Context, wizard *sessions.Wizard, flags wizardFlags) error {
	if flags.title == "" && flags.date == "" && flags.description == "" &&
		flags.eventType == "" && flags.anchor == "" {
		return nil
	}

	draft := wizard.Draft()
	meta := sessions.Metadata{
		Title:         draft.Title,
		RecordingDate: draft.RecordingDate,
		Description:   draft.Description,
		EventType:     draft.EventType,
		AnchorAngle:   draft.AnchorAngle,
	}
	if flags.title != "" {
		meta.Title = flags.title
	}
	if flags.date != "" {
		date, err := time.Parse("2006-01-02", flags.date)
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
		meta.RecordingDate = date
	}
	if flags.description != "" {
		meta.Description = flags.description
	}
	if flags.eventType != "" {
		meta.EventType = flags.eventType
	}
	if flags.anchor != "" {
		angle, ok := media.ParseAngle(flags.anchor)
		if !ok {
			return fmt.Errorf("unknown camera angle %q", flags.anchor)
		}
		meta.AnchorAngle = angle
	}
	return wizard.SetMetadata(ctx, meta)
}

func runUploads(cmd *cobra.Command, wizard *sessions.Wizard, coordinator *uploads.Coordinator, flags wizardFlags) error {
	selected := false
	for _, angle := range media.AllAngles() {
		path := strings.TrimSpace(*flags.cameraFiles[angle])
		if path == "" {
			continue
		}
		if err := coordinator.SelectFile(angle, path); err != nil {
			return err
		}
		selected = true
	}
	if !selected {
		return nil
	}

	uploadErr := coordinator.UploadAll(cmd.Context())
	if err := wizard.SyncUploads(cmd.Context()); err != nil {
		return err
	}
	return uploadErr
}

func printDraftStatus(out io.Writer, wizard *sessions.Wizard, coordinator *uploads.Coordinator) {
	draft := wizard.Draft()
	fmt.Fprintf(out, "Draft %s (step %d of 3)\n", draft.ID, draft.Step)

	rows := make([][]string, 0, 3)
	for _, camera := range coordinator.Cameras() {
		assetID := camera.AssetID
		if assetID == "" {
			assetID = draft.AssetIDs[camera.Angle]
		}
		detail := camera.Err
		if detail == "" && assetID != "" {
			detail = "asset " + assetID
		}
		state := string(camera.State)
		progress := camera.Progress
		if assetID != "" {
			state = string(uploads.StateComplete)
			progress = 100
		}
		rows = append(rows, []string{
			string(camera.Angle),
			camera.Filename,
			state,
			fmt.Sprintf("%d%%", progress),
			detail,
		})
	}
	table := renderTable(
		[]string{"Camera", "File", "State", "Progress", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
	fmt.Fprintln(out, table)

	if missing := wizard.MissingAngles(); len(missing) > 0 {
		labels := make([]string, 0, len(missing))
		for _, angle := range missing {
			labels = append(labels, string(angle))
		}
		fmt.Fprintf(out, "Waiting on cameras: %s\n", strings.Join(labels, ", "))
	} else if draft.Step == int(sessions.StepConfirm) {
		fmt.Fprintln(out, "All cameras uploaded; run again with --confirm to create the session")
	}
}
