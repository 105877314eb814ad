package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slate/internal/workflow"
)

func newInboxCommand(ctx *commandContext) *cobra.Command {
	inboxCmd := &cobra.Command{
		Use:   "inbox",
		Short: "Aggregate and act on workflow items needing attention",
	}

	inboxCmd.AddCommand(newInboxListCommand(ctx))
	inboxCmd.AddCommand(newInboxStatsCommand(ctx))
	inboxCmd.AddCommand(newInboxActCommand(ctx))

	return inboxCmd
}

func newInboxListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var priorityFlags []string
	var categoryFlags []string
	var search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items across all workflow sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := buildFilters(statusFlags, priorityFlags, categoryFlags, search)
			if err != nil {
				return err
			}

			aggregator, err := ctx.newAggregator()
			if err != nil {
				return err
			}
			items := filters.Apply(aggregator.Aggregate(cmd.Context()))

			if asJSON {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty")
				return nil
			}
			table := renderTable(
				[]string{"ID", "Category", "Title", "Status", "Priority", "Actions"},
				buildInboxRows(items),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only show items with these statuses")
	cmd.Flags().StringSliceVar(&priorityFlags, "priority", nil, "Only show items with these priorities")
	cmd.Flags().StringSliceVar(&categoryFlags, "category", nil, "Only show items from these categories")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text match on title, subtitle, and reason")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit items as JSON")
	return cmd
}

func newInboxStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show inbox summary counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			aggregator, err := ctx.newAggregator()
			if err != nil {
				return err
			}
			stats := aggregator.Stats(cmd.Context())

			if asJSON {
				return writeJSON(cmd, stats)
			}

			rows := [][]string{
				{"Total", fmt.Sprintf("%d", stats.Total)},
				{"Urgent", fmt.Sprintf("%d", stats.Urgent)},
				{"Needs review", fmt.Sprintf("%d", stats.NeedsReview)},
				{"Failed", fmt.Sprintf("%d", stats.Failed)},
				{"Processing", fmt.Sprintf("%d", stats.Processing)},
			}
			for _, category := range workflow.AllCategories() {
				if count := stats.ByCategory[category]; count > 0 {
					rows = append(rows, []string{string(category), fmt.Sprintf("%d", count)})
				}
			}
			table := renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit stats as JSON")
	return cmd
}

func newInboxActCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "act <item-id> <action>",
		Short: "Execute an action on an inbox item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID := strings.TrimSpace(args[0])
			action, ok := workflow.ParseAction(args[1])
			if !ok {
				return fmt.Errorf("unknown action %q", args[1])
			}

			dispatcher, aggregator, err := ctx.newDispatcher()
			if err != nil {
				return err
			}

			var target *workflow.Item
			for _, item := range aggregator.Aggregate(cmd.Context()) {
				if item.ID == itemID {
					found := item
					target = &found
					break
				}
			}
			if target == nil {
				return fmt.Errorf("item %s not found in inbox", itemID)
			}

			outcome, dispatchErr := dispatcher.Dispatch(cmd.Context(), *target, action)
			out := cmd.OutOrStdout()
			if outcome.Navigation != nil {
				fmt.Fprintf(out, "Open: %s\n", outcome.Navigation.Route)
			}
			if dispatchErr != nil {
				return dispatchErr
			}
			if outcome.Items != nil {
				if len(outcome.Items) == 0 {
					fmt.Fprintln(out, "Inbox is empty")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Category", "Title", "Status", "Priority", "Actions"},
					buildInboxRows(outcome.Items),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(out, table)
			}
			return nil
		},
	}
	return cmd
}

func buildFilters(statuses, priorities, categories []string, search string) (workflow.Filters, error) {
	var filters workflow.Filters
	for _, value := range statuses {
		status, ok := workflow.ParseStatus(value)
		if !ok {
			return workflow.Filters{}, fmt.Errorf("unknown status %q", value)
		}
		filters.Status = append(filters.Status, status)
	}
	for _, value := range priorities {
		priority, ok := workflow.ParsePriority(value)
		if !ok {
			return workflow.Filters{}, fmt.Errorf("unknown priority %q", value)
		}
		filters.Priority = append(filters.Priority, priority)
	}
	for _, value := range categories {
		category, ok := workflow.ParseCategory(value)
		if !ok {
			return workflow.Filters{}, fmt.Errorf("unknown category %q", value)
		}
		filters.Category = append(filters.Category, category)
	}
	filters.Search = search
	return filters, nil
}

func buildInboxRows(items []workflow.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		actions := make([]string, 0, len(item.AvailableActions))
		for _, action := range item.AvailableActions {
			label := string(action)
			if action == item.PrimaryAction {
				label = "*" + label
			}
			actions = append(actions, label)
		}
		rows = append(rows, []string{
			item.ID,
			string(item.Category),
			item.Title,
			string(item.Status),
			string(item.Priority),
			strings.Join(actions, " "),
		})
	}
	return rows
}
