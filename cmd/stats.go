package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/ticketctl/pkg/formatter"
	"github.com/helmcode/ticketctl/pkg/stats"
)

func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ticket statistics",
		Long: `Show totals, the open backlog and per-priority and per-category breakdowns.

Examples:
  ticketctl stats
  ticketctl stats -o json`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	s := newSpinner("Loading stats...")
	s.Start()
	raw, err := e.client.FetchStats(cmd.Context())
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	return formatter.DisplayStats(cmd.OutOrStdout(), stats.Summarize(raw), outputFormat)
}
