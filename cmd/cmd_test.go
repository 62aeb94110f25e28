package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/llm"
	"github.com/helmcode/ticketctl/pkg/model"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"TICKETS_API_BASE_URL", "CLASSIFIER", "LLM_PROVIDER", "LLM_MODEL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "ticketctl", SilenceUsage: true, SilenceErrors: true}
	AddGlobalFlags(root)
	root.AddCommand(sub)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type recordedAPI struct {
	mu      sync.Mutex
	queries []string
	drafts  []model.Draft
}

func newAPI(t *testing.T) (*recordedAPI, string) {
	t.Helper()
	rec := &recordedAPI{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tickets/", func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.queries = append(rec.queries, r.URL.RawQuery)
		rec.mu.Unlock()
		_, _ = w.Write([]byte(`[{"id": 4, "title": "Double charge", "category": "billing",
			"priority": "high", "status": "open", "created_at": "2026-03-01T08:00:00Z"}]`))
	})
	mux.HandleFunc("POST /api/tickets/", func(w http.ResponseWriter, r *http.Request) {
		var draft model.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		rec.mu.Lock()
		rec.drafts = append(rec.drafts, draft)
		rec.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Ticket{
			ID: 11, Title: draft.Title, Description: draft.Description,
			Category: draft.Category, Priority: draft.Priority, Status: model.StatusOpen,
		})
	})
	mux.HandleFunc("POST /api/tickets/classify/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"suggested_category": "billing", "suggested_priority": "high"}`))
	})
	mux.HandleFunc("PATCH /api/tickets/{id}/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id": ` + r.PathValue("id") + `, "title": "x", "status": "` + body["status"] + `"}`))
	})
	mux.HandleFunc("GET /api/tickets/stats/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_tickets": 4, "open_tickets": 3, "avg_tickets_per_day": 0.5,
			"priority_breakdown": {"high": 4}, "category_breakdown": {"billing": 4}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return rec, srv.URL + "/api"
}

func TestListCommand(t *testing.T) {
	isolateEnv(t)
	rec, url := newAPI(t)

	out, err := execute(t, NewListCmd(), "list", "--api-url", url, "--category", "Billing", "--status", "open", "-o", "json")
	require.NoError(t, err)

	var tickets []model.Ticket
	require.NoError(t, json.Unmarshal([]byte(out), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, int64(4), tickets[0].ID)
	assert.Equal(t, []string{"category=billing&status=open"}, rec.queries)
}

func TestListCommandRejectsUnknownFilter(t *testing.T) {
	isolateEnv(t)
	rec, url := newAPI(t)

	_, err := execute(t, NewListCmd(), "list", "--api-url", url, "--priority", "urgent")
	assert.ErrorContains(t, err, `unknown priority "urgent"`)
	assert.Empty(t, rec.queries)
}

func TestCreateCommandKeepsExplicitFlags(t *testing.T) {
	isolateEnv(t)
	rec, url := newAPI(t)

	out, err := execute(t, NewCreateCmd(), "create", "--api-url", url, "-o", "json",
		"--title", "Charged twice",
		"--description", "My card was charged twice for the same order",
		"--category", "account",
		"--suggest",
	)
	require.NoError(t, err)

	require.Len(t, rec.drafts, 1)
	assert.Equal(t, model.CategoryAccount, rec.drafts[0].Category, "explicit flag wins")
	assert.Equal(t, model.PriorityHigh, rec.drafts[0].Priority, "suggestion fills the rest")

	var ticket model.Ticket
	require.NoError(t, json.Unmarshal([]byte(out), &ticket))
	assert.Equal(t, int64(11), ticket.ID)
}

func TestCreateCommandDefaultsWithoutSuggest(t *testing.T) {
	isolateEnv(t)
	rec, url := newAPI(t)

	_, err := execute(t, NewCreateCmd(), "create", "--api-url", url, "-o", "yaml",
		"-t", "Password reset", "-d", "Reset mail never arrives")
	require.NoError(t, err)

	require.Len(t, rec.drafts, 1)
	assert.Equal(t, model.CategoryGeneral, rec.drafts[0].Category)
	assert.Equal(t, model.PriorityMedium, rec.drafts[0].Priority)
}

func TestCreateCommandValidation(t *testing.T) {
	isolateEnv(t)
	rec, url := newAPI(t)

	_, err := execute(t, NewCreateCmd(), "create", "--api-url", url, "--title", "No description")
	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "description")
	assert.Empty(t, rec.drafts)
}

func TestUpdateCommand(t *testing.T) {
	isolateEnv(t)
	_, url := newAPI(t)

	out, err := execute(t, NewUpdateCmd(), "update", "7", "--status", "resolved", "--api-url", url, "-o", "json")
	require.NoError(t, err)

	var ticket model.Ticket
	require.NoError(t, json.Unmarshal([]byte(out), &ticket))
	assert.Equal(t, int64(7), ticket.ID)
	assert.Equal(t, model.StatusResolved, ticket.Status)

	_, err = execute(t, NewUpdateCmd(), "update", "abc", "--status", "resolved", "--api-url", url)
	assert.ErrorContains(t, err, `invalid ticket id "abc"`)

	_, err = execute(t, NewUpdateCmd(), "update", "7", "--status", "reopened", "--api-url", url)
	assert.ErrorContains(t, err, `unknown status "reopened"`)
}

func TestStatsCommand(t *testing.T) {
	isolateEnv(t)
	_, url := newAPI(t)

	out, err := execute(t, NewStatsCmd(), "stats", "--api-url", url, "-o", "json")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.EqualValues(t, 4, summary["total_tickets"])
	assert.Equal(t, "high", summary["backlog"])
	assert.Equal(t, "billing", summary["busiest_category"])
}

func TestClassifyCommand(t *testing.T) {
	isolateEnv(t)
	_, url := newAPI(t)

	out, err := execute(t, NewClassifyCmd(), "classify", "I", "was", "billed", "twice", "--api-url", url, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"suggested_category": "billing", "suggested_priority": "high"}`, out)

	_, err = execute(t, NewClassifyCmd(), "classify", "anything", "--local")
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestInvalidOutputFormat(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, NewStatsCmd(), "stats", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}
