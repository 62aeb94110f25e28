package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/ticketctl/pkg/form"
	"github.com/helmcode/ticketctl/pkg/formatter"
	"github.com/helmcode/ticketctl/pkg/model"
)

var (
	createTitle       string
	createDescription string
	createCategory    string
	createPriority    string
	createSuggest     bool
)

func NewCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create --title TITLE --description TEXT",
		Short: "Submit a new ticket",
		Long: `Submit a new support ticket.

Category and priority default to general/medium. With --suggest the
description is classified first; a --category or --priority given on the
command line always wins over the suggestion.

Examples:
  # Let the classifier pick category and priority
  ticketctl create --title "Double charge" --description "I was billed twice this month" --suggest

  # Keep my category, let the classifier pick the priority
  ticketctl create -t "VPN drops" -d "The VPN disconnects every hour" --category technical --suggest`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().StringVarP(&createTitle, "title", "t", "", "Ticket title")
	cmd.Flags().StringVarP(&createDescription, "description", "d", "", "Ticket description")
	cmd.Flags().StringVar(&createCategory, "category", string(model.CategoryGeneral), "Category (billing, technical, account, general)")
	cmd.Flags().StringVar(&createPriority, "priority", string(model.PriorityMedium), "Priority (low, medium, high, critical)")
	cmd.Flags().BoolVar(&createSuggest, "suggest", false, "Classify the description before submitting")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	category, err := model.ParseCategory(createCategory)
	if err != nil {
		return err
	}
	priority, err := model.ParsePriority(createPriority)
	if err != nil {
		return err
	}

	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	var classifier form.Classifier
	if createSuggest {
		if classifier, err = e.classifier(); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	loop := form.NewLoop()
	var created *model.Ticket

	opts := e.sessionOptions()
	opts.Dispatch = loop.Dispatch
	opts.Manual = true
	opts.OnSubmitted = func(t model.Ticket) { created = &t }

	session := form.New(ctx, classifier, e.client, opts)
	defer session.Close()

	session.SetTitle(createTitle)
	session.SetDescription(createDescription)
	if cmd.Flags().Changed("category") {
		session.SetCategory(category)
	}
	if cmd.Flags().Changed("priority") {
		session.SetPriority(priority)
	}

	printHeader("🎫 New Ticket")

	if createSuggest {
		if err := session.SuggestNow(); err != nil {
			return err
		}
		s := newSpinner("Classifying description...")
		s.Start()
		_, err := loop.RunUntilIdle(ctx, session)
		s.Stop()
		if err != nil {
			return err
		}

		if advisory := session.Advisory(); advisory != "" {
			printWarning(advisory)
		} else {
			draft := session.Draft()
			printSuccess(fmt.Sprintf("Category: %s, priority: %s", draft.Category, draft.Priority))
		}
	}

	if err := session.Submit(); err != nil {
		return err
	}

	s := newSpinner("Submitting ticket...")
	s.Start()
	outcome, err := loop.RunUntilIdle(ctx, session)
	s.Stop()
	if err != nil {
		return err
	}
	if outcome != form.Submitted || created == nil {
		return fmt.Errorf("failed to create ticket: %w", session.Err())
	}

	printSuccess(fmt.Sprintf("Created ticket #%d", created.ID))
	return formatter.DisplayTicket(cmd.OutOrStdout(), created, outputFormat)
}
