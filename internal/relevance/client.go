// Package relevance calls the Relevance AI tool API that performs the
// actual LinkedIn profile scrape. The browser automation lives on their
// side; this service only triggers the tool and stores the result.
package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client triggers a Relevance AI studio tool.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string

	project    string
	apiKey     string
	toolID     string
	httpClient *http.Client
}

// NewClient builds a client for the region-scoped Relevance AI stack.
func NewClient(region string, project string, apiKey string, toolID string) *Client {
	return &Client{
		BaseURL: fmt.Sprintf("https://api-%s.stack.tryrelevance.com/latest", region),
		project: project,
		apiKey:  apiKey,
		toolID:  toolID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type triggerRequest struct {
	Params  map[string]string `json:"params"`
	Project string            `json:"project"`
}

type triggerResponse struct {
	Errors []any `json:"errors"`
	Output struct {
		LinkedInProfile map[string]any `json:"linkedin_profile"`
	} `json:"output"`
}

// ScrapeProfile runs the LinkedIn tool against one profile URL.
func (c *Client) ScrapeProfile(ctx context.Context, linkedinURL string) (map[string]any, error) {
	body, err := json.Marshal(triggerRequest{
		Params:  map[string]string{"url": linkedinURL},
		Project: c.project,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scrape request: %w", err)
	}

	url := fmt.Sprintf("%s/studios/%s/trigger_limited", c.BaseURL, c.toolID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create scrape request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("%s:%s", c.project, c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape LinkedIn profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to scrape LinkedIn profile: status code %d", resp.StatusCode)
	}

	var parsed triggerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("unexpected response format from LinkedIn scraper: %w", err)
	}

	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("LinkedIn scraping failed: %v", parsed.Errors)
	}
	if parsed.Output.LinkedInProfile == nil {
		return nil, fmt.Errorf("unexpected response format from LinkedIn scraper: missing profile")
	}

	return parsed.Output.LinkedInProfile, nil
}
