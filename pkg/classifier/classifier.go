package classifier

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/llm"
	"github.com/helmcode/ticketctl/pkg/model"
	"github.com/helmcode/ticketctl/pkg/parser"
	"github.com/helmcode/ticketctl/pkg/prompts"
)

// Classifier suggests a category and priority by asking an LLM directly,
// without going through the ticket API.
type Classifier struct {
	llm llm.LLM
	log *zap.Logger
}

// New returns a classifier backed by l. A nil l always answers with the
// general/medium fallback.
func New(l llm.LLM, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{llm: l, log: log}
}

// Classify never fails because of the model: unreachable providers and
// unusable replies both yield the fallback. Only a blank description and
// a cancelled context are errors.
func (c *Classifier) Classify(ctx context.Context, description string) (model.Suggestion, error) {
	if strings.TrimSpace(description) == "" {
		return model.Suggestion{}, api.NewValidationError("Enter a description before classifying.", map[string][]string{
			"description": {"This field may not be blank."},
		})
	}
	if c.llm == nil {
		return parser.Fallback, nil
	}

	rawResp, err := c.llm.Chat(ctx, prompts.ClassifySystem, prompts.BuildClassifyPrompt(description))
	if err != nil {
		if ctx.Err() != nil {
			return model.Suggestion{}, &api.ClassifierUnavailable{Err: ctx.Err()}
		}
		c.log.Warn("LLM classification failed, using fallback",
			zap.String("model", c.llm.GetModel()),
			zap.Error(err),
		)
		return parser.Fallback, nil
	}

	suggestion, ok := parser.ParseSuggestion(rawResp)
	if !ok {
		c.log.Warn("unusable LLM classification reply", zap.String("model", c.llm.GetModel()))
	}
	return suggestion, nil
}
