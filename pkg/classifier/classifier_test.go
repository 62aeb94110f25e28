package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/model"
	"github.com/helmcode/ticketctl/pkg/parser"
)

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) Chat(ctx context.Context, system, prompt string) (string, error) {
	s.prompt = prompt
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.reply, s.err
}

func (s *stubLLM) GetModel() string { return "stub" }

func TestClassify(t *testing.T) {
	l := &stubLLM{reply: `{"category": "billing", "priority": "medium"}`}
	c := New(l, nil)

	got, err := c.Classify(context.Background(), "My invoice is wrong and I was billed twice")
	require.NoError(t, err)
	assert.Equal(t, model.Suggestion{Category: model.CategoryBilling, Priority: model.PriorityMedium}, got)
	assert.Contains(t, l.prompt, "My invoice is wrong and I was billed twice")
	assert.Contains(t, l.prompt, "billing, technical, account, general")
}

func TestClassifyFallsBack(t *testing.T) {
	cases := map[string]*Classifier{
		"no model":      New(nil, nil),
		"model error":   New(&stubLLM{err: errors.New("status 500")}, nil),
		"garbage reply": New(&stubLLM{reply: "I think billing?"}, nil),
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), "The dashboard will not load at all")
			require.NoError(t, err)
			assert.Equal(t, parser.Fallback, got)
		})
	}
}

func TestClassifyErrors(t *testing.T) {
	c := New(&stubLLM{reply: `{}`}, nil)

	_, err := c.Classify(context.Background(), "   ")
	var verr *api.ValidationError
	assert.ErrorAs(t, err, &verr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Classify(ctx, "The dashboard will not load at all")
	var unavailable *api.ClassifierUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
