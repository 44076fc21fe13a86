// Package services holds the pipeline's domain services and the contracts
// for its external collaborators.
package services

import (
	"context"
	"fmt"

	"trendops/backend/pkg/models"
)

// ContentGenerator is the contract for the external content-generation
// service. It is a black box returning structured text.
type ContentGenerator interface {
	// GenerateIdeas returns up to count content ideas for a topic. An empty
	// result is not an error; the caller skips the opportunity.
	GenerateIdeas(ctx context.Context, topic string, count int) ([]string, error)
	// Generate produces a draft for a brief.
	Generate(ctx context.Context, brief models.ContentBrief) (*models.ContentDraft, error)
	// Optimize runs an SEO pass over a draft and returns the reworked draft.
	Optimize(ctx context.Context, draft models.ContentDraft) (*models.ContentDraft, error)
}

// ChannelPublisher is the contract for the external channel publishing
// collaborator.
type ChannelPublisher interface {
	// Publish executes one distribution step and reports the outcome.
	Publish(ctx context.Context, draft models.ContentDraft, step models.DistributionStep) (*models.StepResult, error)
}

// GenerationError wraps a content-generation service failure. Recorded per
// item; the pipeline continues with other items.
type GenerationError struct {
	BriefID string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("content generation failed for brief %s: %v", e.BriefID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PublishError wraps a per-channel publishing failure. Never pipeline-fatal.
type PublishError struct {
	DraftID string
	Channel models.Channel
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed for draft %s on %s: %v", e.DraftID, e.Channel, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
