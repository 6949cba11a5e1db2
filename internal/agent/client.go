package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fleet_console/internal/models"
)

// Backend endpoints, relative to the configured base URL.
const (
	pathAutopilot   = "/agent/fleet/autopilot"
	pathExplain     = "/agent/fleet/autopilot/explain"
	pathProcurement = "/agent/procurement/recommend"

	defaultTimeout = 30 * time.Second
	maxErrBody     = 4 << 10 // 4 KB of error detail is plenty
)

// Error is a non-success backend response. Detail carries the backend's
// error field when it sent one, otherwise the raw body.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// Client calls the analysis backend over JSON request/response. It is a
// pure collaborator: it never touches the session stores.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given base URL. A zero timeout falls
// back to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Autopilot runs one fleet scan.
func (c *Client) Autopilot(ctx context.Context, p models.AutopilotParams) (*models.AutopilotResult, error) {
	var out models.AutopilotResult
	if err := c.post(ctx, pathAutopilot, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type explainRequest struct {
	Cases []models.AutopilotCase `json:"cases"`
	TopK  int                    `json:"topK"`
}

// Explain requests the secondary explanation for a case list.
func (c *Client) Explain(ctx context.Context, cases []models.AutopilotCase, topK int) (*models.Enrichment, error) {
	var out models.Enrichment
	if err := c.post(ctx, pathExplain, explainRequest{Cases: cases, TopK: topK}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recommend runs the provider recommendation.
func (c *Client) Recommend(ctx context.Context, p models.ProcurementParams) (*models.ProcurementResult, error) {
	var out models.ProcurementResult
	if err := c.post(ctx, pathProcurement, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readDetail extracts the backend's {"detail": ...} error field, falling
// back to the raw body text.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrBody))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}
