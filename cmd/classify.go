package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/formatter"
)

func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify DESCRIPTION",
		Short: "Suggest a category and priority for a description",
		Long: `Ask the classifier which category and priority fit a ticket description.

The ticket API classifies by default. With --local (or CLASSIFIER=local)
an LLM is called directly using ANTHROPIC_API_KEY or OPENAI_API_KEY.

Examples:
  ticketctl classify "I was charged twice for my subscription"
  ticketctl classify "Server returns 500 on login" --local --provider openai`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	description := strings.Join(args, " ")

	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	classifier, err := e.classifier()
	if err != nil {
		return err
	}

	s := newSpinner("Classifying with AI...")
	s.Start()
	suggestion, err := classifier.Classify(cmd.Context(), description)
	s.Stop()
	if err != nil {
		printWarning(api.Advisory(err))
		return fmt.Errorf("classification failed: %w", err)
	}

	return formatter.DisplaySuggestion(cmd.OutOrStdout(), suggestion, outputFormat)
}
