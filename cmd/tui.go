package cmd

import (
	"github.com/spf13/cobra"

	"github.com/helmcode/ticketctl/pkg/tui"
)

func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive ticket client",
		Long: `Open a full-screen client with three tabs: submit a ticket (with
suggestions while you type), browse and filter tickets, and view stats.

Logs are discarded unless LOG_FILE is set.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(true)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	classifier, err := e.classifier()
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), tui.Config{
		Backend:    e.client,
		Classifier: classifier,
		Session:    e.sessionOptions(),
		Logger:     e.log,
	})
}
