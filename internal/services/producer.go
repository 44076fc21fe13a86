package services

import (
	"context"
	"time"

	"trendops/backend/pkg/models"
)

// Quality-gate thresholds. An SEO sub-score below seoOptimizeThreshold
// triggers exactly one optimization pass; readiness is decided on the
// overall quality score.
const (
	seoOptimizeThreshold  = 80.0
	readyQualityThreshold = 70.0
)

// ProducerService generates drafts, gates them on quality and turns approved
// drafts into publishing plans.
type ProducerService struct {
	generator ContentGenerator
	publisher ChannelPublisher
	now       func() time.Time
}

// NewProducerService creates a new ProducerService.
func NewProducerService(generator ContentGenerator, publisher ChannelPublisher) *ProducerService {
	return &ProducerService{generator: generator, publisher: publisher, now: time.Now}
}

// Produce generates a draft for a brief and computes its quality report.
// When the SEO sub-score is below the optimization threshold the draft gets
// one optimization pass and the report is recomputed; never more than one.
func (s *ProducerService) Produce(ctx context.Context, brief models.ContentBrief) (*models.ContentDraft, *models.QualityReport, error) {
	draft, err := s.generator.Generate(ctx, brief)
	if err != nil {
		return nil, nil, &GenerationError{BriefID: brief.ID, Err: err}
	}

	report := assessQuality(draft)
	if report.SEOQuality < seoOptimizeThreshold {
		optimized, err := s.generator.Optimize(ctx, *draft)
		if err != nil {
			// The unoptimized draft still stands and the gate decides with the
			// original scores, but the degradation must be visible.
			report.Recommendations = append(report.Recommendations,
				"SEO optimization pass failed: "+err.Error()+"; scores are unoptimized")
			return draft, report, nil
		}
		draft = optimized
		report = assessQuality(draft)
	}
	return draft, report, nil
}

// PlanPublication builds a publishing plan from a draft's brief channel
// assignment. Only call it for drafts whose report said ready.
func (s *ProducerService) PlanPublication(draft models.ContentDraft, brief models.ContentBrief) models.PublishingPlan {
	steps := []models.DistributionStep{
		{Channel: brief.PrimaryChannel, Action: "publish", Order: 1},
	}
	for i, ch := range brief.SecondaryChannels {
		steps = append(steps, models.DistributionStep{
			Channel: ch, Action: "cross-post", Order: i + 2,
		})
	}
	return models.PublishingPlan{
		DraftID:           draft.ID,
		PrimaryChannel:    brief.PrimaryChannel,
		SecondaryChannels: brief.SecondaryChannels,
		ScheduledAt:       s.now(),
		Steps:             steps,
	}
}

// ExecutePlan runs every distribution step of a plan. A failed step is
// recorded in its result and does not stop the remaining steps.
func (s *ProducerService) ExecutePlan(ctx context.Context, draft models.ContentDraft, plan models.PublishingPlan) []models.StepResult {
	results := make([]models.StepResult, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		res, err := s.publisher.Publish(ctx, draft, step)
		if err != nil {
			perr := &PublishError{DraftID: draft.ID, Channel: step.Channel, Err: err}
			results = append(results, models.StepResult{
				Channel:   step.Channel,
				Succeeded: false,
				Detail:    perr.Error(),
			})
			continue
		}
		results = append(results, *res)
	}
	return results
}

// assessQuality computes the gate decision for a draft. Deterministic: the
// report is a function of the draft's scores alone.
func assessQuality(draft *models.ContentDraft) *models.QualityReport {
	report := &models.QualityReport{
		DraftID:        draft.ID,
		SEOQuality:     draft.SEOScore,
		ReadyToPublish: draft.QualityScore >= readyQualityThreshold,
	}
	if !report.ReadyToPublish {
		report.Recommendations = append(report.Recommendations,
			"quality score below publication threshold; revise structure and depth")
	}
	if draft.SEOScore < seoOptimizeThreshold {
		report.Recommendations = append(report.Recommendations,
			"SEO score remains low; review keyword placement and meta description")
	}
	return report
}
