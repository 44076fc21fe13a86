package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"trendops/backend/pkg/models"
)

// HTTPChannelPublisher is an HTTP implementation of the ChannelPublisher
// interface, talking to the channel-integration sidecar.
type HTTPChannelPublisher struct {
	url    string
	client *http.Client
}

// NewHTTPChannelPublisher creates a new HTTPChannelPublisher.
func NewHTTPChannelPublisher(url string) *HTTPChannelPublisher {
	return &HTTPChannelPublisher{url: url, client: http.DefaultClient}
}

// Publish executes one distribution step and reports the outcome.
func (c *HTTPChannelPublisher) Publish(ctx context.Context, draft models.ContentDraft, step models.DistributionStep) (*models.StepResult, error) {
	payload := map[string]interface{}{
		"draft_id": draft.ID,
		"title":    draft.Title,
		"body":     draft.Body,
		"channel":  step.Channel,
		"action":   step.Action,
	}
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+"/publish", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("publisher returned status code %d", resp.StatusCode)
	}

	var result models.StepResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	result.Channel = step.Channel
	return &result, nil
}
