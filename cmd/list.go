package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/ticketctl/pkg/formatter"
	"github.com/helmcode/ticketctl/pkg/model"
)

var (
	listSearch   string
	listCategory string
	listPriority string
	listStatus   string
)

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tickets, newest first",
		Long: `List tickets from the ticket API. Filters combine; unset filters match everything.

Examples:
  # All tickets
  ticketctl list

  # Open billing tickets mentioning "invoice"
  ticketctl list --category billing --status open --search invoice

  # Machine-readable output
  ticketctl list --priority critical -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search title and description")
	cmd.Flags().StringVar(&listCategory, "category", "", "Filter by category (billing, technical, account, general)")
	cmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority (low, medium, high, critical)")
	cmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (open, in_progress, resolved, closed)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	filters, err := parseFilters()
	if err != nil {
		return err
	}

	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	s := newSpinner("Loading tickets...")
	s.Start()
	tickets, err := e.client.FetchTickets(cmd.Context(), filters)
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to list tickets: %w", err)
	}

	return formatter.DisplayTickets(cmd.OutOrStdout(), tickets, outputFormat)
}

func parseFilters() (model.Filters, error) {
	filters := model.Filters{Search: listSearch}
	var err error
	if listCategory != "" {
		if filters.Category, err = model.ParseCategory(listCategory); err != nil {
			return filters, err
		}
	}
	if listPriority != "" {
		if filters.Priority, err = model.ParsePriority(listPriority); err != nil {
			return filters, err
		}
	}
	if listStatus != "" {
		if filters.Status, err = model.ParseStatus(listStatus); err != nil {
			return filters, err
		}
	}
	return filters, nil
}
