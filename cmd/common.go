package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/classifier"
	"github.com/helmcode/ticketctl/pkg/config"
	"github.com/helmcode/ticketctl/pkg/form"
	"github.com/helmcode/ticketctl/pkg/formatter"
	"github.com/helmcode/ticketctl/pkg/llm"
	"github.com/helmcode/ticketctl/pkg/observability"
)

var (
	apiURL       string
	outputFormat string
	llmProvider  string
	llmModel     string
	useLocal     bool
)

// AddGlobalFlags registers the flags every subcommand understands.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "Ticket API base URL (overrides TICKETS_API_BASE_URL)")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")
	root.PersistentFlags().StringVar(&llmProvider, "provider", "", "LLM provider for local classification (claude, openai). Defaults to auto-detect from env")
	root.PersistentFlags().StringVar(&llmModel, "model", "", "LLM model to use (overrides default)")
	root.PersistentFlags().BoolVar(&useLocal, "local", false, "Classify with an LLM directly instead of the ticket API")
}

// env is what a command needs once flags and environment are resolved.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
}

// setup loads configuration and builds the logger and API client. ui
// selects a logger that stays off the terminal.
func setup(ui bool) (*env, error) {
	if err := formatter.ValidateFormat(outputFormat); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if useLocal {
		cfg.Form.Classifier = config.ClassifierLocal
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	newLogger := observability.NewLogger
	if ui {
		newLogger = observability.NewUILogger
	}
	log, err := newLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithLogger(log),
	)
	return &env{cfg: cfg, log: log, client: client}, nil
}

// classifier returns the suggestion source: the ticket API, or an LLM
// when CLASSIFIER=local or --local is set.
func (e *env) classifier() (form.Classifier, error) {
	if e.cfg.Form.Classifier != config.ClassifierLocal {
		return e.client, nil
	}

	l, err := llm.CreateFromConfig(e.cfg.LLM, e.cfg.LLM.Provider, e.cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	e.log.Debug("using local classifier", zap.String("model", l.GetModel()))
	return classifier.New(l, e.log), nil
}

func (e *env) sessionOptions() form.Options {
	return form.Options{
		Delay:                e.cfg.Form.Debounce(),
		MinDescriptionLength: e.cfg.Form.MinDescriptionLength,
		Logger:               e.log,
	}
}

// newSpinner writes to stderr so machine-readable output stays clean.
func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}

func humanOutput() bool {
	return outputFormat == formatter.FormatHuman
}

func printHeader(title string) {
	if !humanOutput() {
		return
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println(title)
	fmt.Println()
}

func printSuccess(msg string) {
	if !humanOutput() {
		return
	}
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printWarning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stderr, "! %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}
