package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/ticketctl/pkg/model"
)

const (
	OpFetchTickets = "fetch tickets"
	OpCreateTicket = "create ticket"
	OpUpdateTicket = "update ticket"
	OpClassify     = "classify description"
	OpFetchStats   = "fetch stats"
)

const DefaultBaseURL = "http://localhost:8000/api"

// Client talks to the ticket API.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the API rooted at baseURL
// (for example http://localhost:8000/api).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) FetchTickets(ctx context.Context, filters model.Filters) ([]model.Ticket, error) {
	path := "/tickets/"
	if q := filters.Values().Encode(); q != "" {
		path += "?" + q
	}

	var tickets []model.Ticket
	if err := c.do(ctx, OpFetchTickets, http.MethodGet, path, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket submits a draft. A 4xx answer with a field-error payload is
// returned as *ValidationError.
func (c *Client) CreateTicket(ctx context.Context, draft model.Draft) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.do(ctx, OpCreateTicket, http.MethodPost, "/tickets/", draft, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id int64, status model.Status) (*model.Ticket, error) {
	body := map[string]model.Status{"status": status}

	var ticket model.Ticket
	if err := c.do(ctx, OpUpdateTicket, http.MethodPatch, fmt.Sprintf("/tickets/%d/", id), body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Classify asks the API for a category/priority suggestion. Every failure is
// reported as *ClassifierUnavailable.
func (c *Client) Classify(ctx context.Context, description string) (model.Suggestion, error) {
	body := map[string]string{"description": description}

	var suggestion model.Suggestion
	if err := c.do(ctx, OpClassify, http.MethodPost, "/tickets/classify/", body, &suggestion); err != nil {
		return model.Suggestion{}, &ClassifierUnavailable{Err: err}
	}

	category, err := model.ParseCategory(string(suggestion.Category))
	if err != nil {
		return model.Suggestion{}, &ClassifierUnavailable{Err: err}
	}
	priority, err := model.ParsePriority(string(suggestion.Priority))
	if err != nil {
		return model.Suggestion{}, &ClassifierUnavailable{Err: err}
	}
	return model.Suggestion{Category: category, Priority: priority}, nil
}

func (c *Client) FetchStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, OpFetchStats, http.MethodGet, "/tickets/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug("ticket API request failed", zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	log.Debug("ticket API request done",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if op == OpCreateTicket && resp.StatusCode >= 400 && resp.StatusCode < 500 {
			if verr := decodeValidationError(respBytes); verr != nil {
				return verr
			}
		}
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(errorText(respBytes))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// decodeValidationError reads a field-error payload such as
// {"title": ["Title is required."]} or {"detail": "..."}.
func decodeValidationError(body []byte) *ValidationError {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return nil
	}

	verr := &ValidationError{Message: "ticket rejected", Fields: map[string][]string{}}
	for field, raw := range payload {
		switch v := raw.(type) {
		case string:
			if field == "detail" {
				verr.Message = v
				continue
			}
			verr.Fields[field] = []string{v}
		case []any:
			for _, item := range v {
				verr.Fields[field] = append(verr.Fields[field], fmt.Sprint(item))
			}
		default:
			verr.Fields[field] = []string{fmt.Sprint(v)}
		}
	}
	return verr
}

func errorText(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response"
	}
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
