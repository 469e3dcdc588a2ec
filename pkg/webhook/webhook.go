// Package webhook posts Discord embeds to incoming webhooks.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Footer is the footer text used by every embed the bot posts
const Footer = "💫 Developed by PancyStudio | PancyMod Go"

// Embed is the subset of a Discord embed the bot sends through webhooks
type Embed struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Color       int           `json:"color,omitempty"`
	Timestamp   string        `json:"timestamp,omitempty"`
	Author      *EmbedAuthor  `json:"author,omitempty"`
	Footer      *EmbedFooter  `json:"footer,omitempty"`
	Fields      []*EmbedField `json:"fields,omitempty"`
}

type EmbedAuthor struct {
	Name string `json:"name"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type payload struct {
	Embeds []*Embed `json:"embeds"`
}

// Client sends embeds to webhook URLs
type Client struct {
	http *http.Client
}

// New creates a webhook client with the given request timeout
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Send posts the embeds to url and returns the response status code.
// An empty url is a no-op.
func (c *Client) Send(ctx context.Context, url string, embeds ...*Embed) (int, error) {
	if url == "" {
		return 0, nil
	}

	for _, e := range embeds {
		if e.Timestamp == "" {
			e.Timestamp = time.Now().Format(time.RFC3339)
		}
		if e.Footer == nil {
			e.Footer = &EmbedFooter{Text: Footer}
		}
	}

	body, err := json.Marshal(payload{Embeds: embeds})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
