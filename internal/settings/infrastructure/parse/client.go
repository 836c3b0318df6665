// Package parse talks to the external message-parse service. The service is
// opaque to the dashboard: we send content plus the configured model and
// prompt and relay whatever structured result comes back.
package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type Client struct {
	log      *slog.Logger
	baseURL  string
	apiKey   string
	httpClnt *http.Client
}

func NewClient(log *slog.Logger, baseURL, apiKey string) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClnt: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type parseRequest struct {
	Content string  `json:"content"`
	Model   string  `json:"model"`
	Prompt  *string `json:"prompt,omitempty"`
	DryRun  bool    `json:"dry_run"`
}

func (c *Client) TestParse(ctx context.Context, content, model string, prompt *string) (json.RawMessage, error) {
	body, err := json.Marshal(parseRequest{Content: content, Model: model, Prompt: prompt, DryRun: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClnt.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call parse service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parse service returned %d: %s", resp.StatusCode, raw)
	}
	return json.RawMessage(raw), nil
}
