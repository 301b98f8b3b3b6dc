package dune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"l2scope/internal/model"
)

// DefaultBaseURL is the public Dune Analytics API.
const DefaultBaseURL = "https://api.dune.com/api/v1"

const defaultPollInterval = time.Second

// Execution states reported by the status endpoint.
const (
	stateCompleted = "QUERY_STATE_COMPLETED"
	stateFailed    = "QUERY_STATE_FAILED"
	stateCancelled = "QUERY_STATE_CANCELLED"
	stateExpired   = "QUERY_STATE_EXPIRED"
)

// Client executes Dune queries and normalizes result rows. A saved
// query runs by ID (works on the free tier); raw SQL is submitted as a
// throwaway private query (requires a paid plan upstream).
type Client struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewClient builds a Dune client. The API key is required.
func NewClient(baseURL, apiKey string, pollInterval time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: DUNE_API_KEY is not set", model.ErrConfiguration)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		pollInterval: pollInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Rows executes the configured query source and returns the normalized
// metric rows in upstream order. Exactly one path runs per call.
func (c *Client) Rows(ctx context.Context, source model.QuerySource) ([]model.MetricRow, error) {
	if id, ok := source.SavedQueryID(); ok {
		return c.runSavedQuery(ctx, id)
	}
	if sql, ok := source.SQL(); ok {
		return c.runSQL(ctx, sql)
	}
	return nil, fmt.Errorf("%w: query source is empty", model.ErrConfiguration)
}

func (c *Client) runSavedQuery(ctx context.Context, queryID int64) ([]model.MetricRow, error) {
	executionID, err := c.execute(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if err := c.waitForCompletion(ctx, executionID); err != nil {
		return nil, err
	}
	return c.results(ctx, executionID)
}

func (c *Client) runSQL(ctx context.Context, sql string) ([]model.MetricRow, error) {
	queryID, err := c.createQuery(ctx, sql)
	if err != nil {
		return nil, err
	}
	// Throwaway query: archive it regardless of the execution outcome.
	defer c.archiveQuery(queryID)

	return c.runSavedQuery(ctx, queryID)
}

func (c *Client) execute(ctx context.Context, queryID int64) (string, error) {
	var out struct {
		ExecutionID string `json:"execution_id"`
	}
	path := fmt.Sprintf("/query/%d/execute", queryID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"performance": "medium"}, &out, false); err != nil {
		return "", err
	}
	if out.ExecutionID == "" {
		return "", fmt.Errorf("%w: execute response has no execution_id", model.ErrMalformedResponse)
	}
	return out.ExecutionID, nil
}

func (c *Client) waitForCompletion(ctx context.Context, executionID string) error {
	for {
		var out struct {
			State string `json:"state"`
		}
		path := fmt.Sprintf("/execution/%s/status", executionID)
		if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
			return err
		}

		switch out.State {
		case stateCompleted:
			return nil
		case stateFailed, stateCancelled, stateExpired:
			return fmt.Errorf("%w: execution %s ended in %s", model.ErrUpstreamUnavailable, executionID, out.State)
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) results(ctx context.Context, executionID string) ([]model.MetricRow, error) {
	var out struct {
		Result struct {
			Rows []resultRow `json:"rows"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/execution/%s/results", executionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}

	rows := make([]model.MetricRow, 0, len(out.Result.Rows))
	for i, raw := range out.Result.Rows {
		row, err := raw.toMetricRow()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", model.ErrMalformedResponse, i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) createQuery(ctx context.Context, sql string) (int64, error) {
	var out struct {
		QueryID int64 `json:"query_id"`
	}
	body := map[string]any{
		"name":       "l2scope adhoc",
		"query_sql":  sql,
		"is_private": true,
	}
	if err := c.do(ctx, http.MethodPost, "/query", body, &out, true); err != nil {
		return 0, err
	}
	if out.QueryID == 0 {
		return 0, fmt.Errorf("%w: create query response has no query_id", model.ErrMalformedResponse)
	}
	return out.QueryID, nil
}

func (c *Client) archiveQuery(queryID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := fmt.Sprintf("/query/%d/archive", queryID)
	// Best effort; a leftover private query is harmless.
	_ = c.do(ctx, http.MethodPost, path, nil, nil, false)
}

// do issues one request and classifies the response status. creating
// reports whether this is the create-query call, whose rejections on
// the free tier map to ErrPlanRequired.
func (c *Client) do(ctx context.Context, method, path string, body, out any, creating bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Dune-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: dune: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyStatus(resp, creating)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode dune response: %v", model.ErrMalformedResponse, err)
	}
	return nil
}

// classifyStatus maps an error status onto the fetch taxonomy. The
// upstream message format is unspecified, so classification never
// matches on message text; the text is carried for display only.
func (c *Client) classifyStatus(resp *http.Response, creating bool) error {
	message := upstreamMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusPaymentRequired,
		creating && resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: dune returned %s: %s", model.ErrPlanRequired, resp.Status, message)
	default:
		return fmt.Errorf("%w: dune returned %s: %s", model.ErrUpstreamUnavailable, resp.Status, message)
	}
}

func upstreamMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
