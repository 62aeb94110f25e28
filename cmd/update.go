package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/helmcode/ticketctl/pkg/formatter"
	"github.com/helmcode/ticketctl/pkg/model"
)

var updateStatus string

func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID --status STATUS",
		Short: "Change a ticket's status",
		Long: `Change the status of an existing ticket.

Examples:
  ticketctl update 42 --status in_progress
  ticketctl update 42 --status resolved -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().StringVar(&updateStatus, "status", "", "New status (open, in_progress, resolved, closed)")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid ticket id %q", args[0])
	}
	status, err := model.ParseStatus(updateStatus)
	if err != nil {
		return err
	}

	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	s := newSpinner(fmt.Sprintf("Updating ticket #%d...", id))
	s.Start()
	ticket, err := e.client.UpdateTicket(cmd.Context(), id, status)
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to update ticket #%d: %w", id, err)
	}

	printSuccess(fmt.Sprintf("Ticket #%d is now %s", ticket.ID, ticket.Status))
	return formatter.DisplayTicket(cmd.OutOrStdout(), ticket, outputFormat)
}
