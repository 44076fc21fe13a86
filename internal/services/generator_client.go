package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"trendops/backend/pkg/models"
)

// HTTPContentGenerator is an HTTP implementation of the ContentGenerator
// interface, talking to the generation sidecar.
type HTTPContentGenerator struct {
	url    string
	client *http.Client
}

// NewHTTPContentGenerator creates a new HTTPContentGenerator.
func NewHTTPContentGenerator(url string) *HTTPContentGenerator {
	return &HTTPContentGenerator{url: url, client: http.DefaultClient}
}

// GenerateIdeas returns up to count content ideas for a topic.
func (c *HTTPContentGenerator) GenerateIdeas(ctx context.Context, topic string, count int) ([]string, error) {
	var ideas []string
	err := c.post(ctx, "/ideas", map[string]interface{}{"topic": topic, "count": count}, &ideas)
	if err != nil {
		return nil, err
	}
	if len(ideas) > count {
		ideas = ideas[:count]
	}
	return ideas, nil
}

// Generate produces a draft for a brief.
func (c *HTTPContentGenerator) Generate(ctx context.Context, brief models.ContentBrief) (*models.ContentDraft, error) {
	var draft models.ContentDraft
	if err := c.post(ctx, "/generate", brief, &draft); err != nil {
		return nil, err
	}
	draft.BriefID = brief.ID
	return &draft, nil
}

// Optimize runs an SEO pass over a draft.
func (c *HTTPContentGenerator) Optimize(ctx context.Context, draft models.ContentDraft) (*models.ContentDraft, error) {
	var out models.ContentDraft
	if err := c.post(ctx, "/optimize", draft, &out); err != nil {
		return nil, err
	}
	out.ID = draft.ID
	out.BriefID = draft.BriefID
	return &out, nil
}

func (c *HTTPContentGenerator) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+path, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generator returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
