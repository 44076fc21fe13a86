package services

import (
	"context"

	"github.com/google/uuid"

	"trendops/backend/internal/repository"
	"trendops/backend/pkg/models"
)

// Target-metric estimation factors. Engagement and conversion targets are
// derived from the opportunity's estimated reach.
const (
	engagementRate = 0.05
	conversionRate = 0.01
)

// StrategyService turns a scored opportunity into a content brief.
type StrategyService struct {
	generator ContentGenerator
	signals   repository.SignalStore
}

// NewStrategyService creates a new StrategyService.
func NewStrategyService(generator ContentGenerator, signals repository.SignalStore) *StrategyService {
	return &StrategyService{generator: generator, signals: signals}
}

// BuildBrief produces zero or one brief for an opportunity. A nil brief with
// a nil error means idea generation came up empty; the caller skips the
// opportunity without failing the run.
func (s *StrategyService) BuildBrief(ctx context.Context, opp models.TrendOpportunity, ideaCount int) (*models.ContentBrief, error) {
	ideas, err := s.generator.GenerateIdeas(ctx, opp.Topic, ideaCount)
	if err != nil {
		return nil, &GenerationError{BriefID: opp.ID, Err: err}
	}
	if len(ideas) == 0 {
		return nil, nil
	}

	brief := &models.ContentBrief{
		ID:             uuid.New().String(),
		Title:          ideas[0],
		Format:         opp.Format,
		PrimaryChannel: channelFor(opp.Format),
		Priority:       opp.OpportunityScore,
		OpportunityID:  opp.ID,
		EstimatedReach: opp.EstimatedReach,
		Targets: models.TargetMetrics{
			Views:       opp.EstimatedReach,
			Engagement:  int64(float64(opp.EstimatedReach) * engagementRate),
			Conversions: int64(float64(opp.EstimatedReach) * conversionRate),
		},
	}

	// High-coefficient topics always get a social leg in addition to the
	// format's home channel.
	if opp.ViralCoeff >= 85 && brief.PrimaryChannel != models.ChannelSocial {
		brief.SecondaryChannels = append(brief.SecondaryChannels, models.ChannelSocial)
	}

	keywords, err := s.signals.MatchKeywords(ctx, opp.Topic, 1)
	if err != nil {
		return nil, err
	}
	if len(keywords) > 0 {
		brief.KeywordID = keywords[0].ID
	}

	return brief, nil
}

func channelFor(format models.ContentFormat) models.Channel {
	switch format {
	case models.FormatVideo:
		return models.ChannelVideo
	case models.FormatThread:
		return models.ChannelSocial
	case models.FormatNewsletter:
		return models.ChannelNewsletter
	default:
		return models.ChannelBlog
	}
}
