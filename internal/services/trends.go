package services

import (
	"context"
	"sort"
	"time"

	"trendops/backend/internal/repository"
	"trendops/backend/internal/scoring"
	"trendops/backend/pkg/models"
)

// TrendService detects ranked content opportunities from the signal store.
type TrendService struct {
	signals repository.SignalStore
	now     func() time.Time
}

// NewTrendService creates a new TrendService.
func NewTrendService(signals repository.SignalStore) *TrendService {
	return &TrendService{signals: signals, now: time.Now}
}

// DetectEmerging returns scored opportunities for early-stage trends with
// relevance at or above minRelevance, best first. The whole matching
// population is scored before the limit applies.
func (s *TrendService) DetectEmerging(ctx context.Context, minRelevance float64, limit int) ([]models.TrendOpportunity, error) {
	stages := []models.LifecycleStage{models.StageEmerging, models.StageGrowing}
	candidates, err := s.signals.CandidatesByStage(ctx, stages, minRelevance)
	if err != nil {
		return nil, err
	}
	return scoreAndRank(candidates, limit), nil
}

// DetectViral returns scored opportunities with a viral coefficient at or
// above minCoeff, best first. Declining and dead trends are excluded.
func (s *TrendService) DetectViral(ctx context.Context, minCoeff float64, limit int) ([]models.TrendOpportunity, error) {
	stages := []models.LifecycleStage{models.StageEmerging, models.StageGrowing, models.StagePeak}
	candidates, err := s.signals.ViralCandidates(ctx, stages, minCoeff)
	if err != nil {
		return nil, err
	}
	return scoreAndRank(candidates, limit), nil
}

// TimeSensitiveAlerts flags candidates within the alert window of their next
// lifecycle stage, attaching the recommended action for the current stage.
// A candidate that disappears between listing and lookup surfaces as
// repository.ErrNotFound; the caller decides, it is never retried here.
func (s *TrendService) TimeSensitiveAlerts(ctx context.Context, ids []string) ([]models.TransitionAlert, error) {
	var alerts []models.TransitionAlert
	for _, id := range ids {
		c, err := s.signals.GetCandidate(ctx, id)
		if err != nil {
			return nil, err
		}
		daysInStage := int(s.now().Sub(c.StageEnteredAt).Hours() / 24)
		if !scoring.TransitionImminent(c.Stage, daysInStage) {
			continue
		}
		remaining, _ := scoring.DaysToNextStage(c.Stage, daysInStage)
		alerts = append(alerts, models.TransitionAlert{
			Opportunity:       scoring.BuildOpportunity(*c),
			DaysUntilNext:     remaining,
			RecommendedAction: scoring.RecommendedAction(c.Stage),
		})
	}
	return alerts, nil
}

func scoreAndRank(candidates []models.TrendCandidate, limit int) []models.TrendOpportunity {
	opps := make([]models.TrendOpportunity, 0, len(candidates))
	for _, c := range candidates {
		opps = append(opps, scoring.BuildOpportunity(c))
	}
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].OpportunityScore > opps[j].OpportunityScore
	})
	if limit > 0 && len(opps) > limit {
		opps = opps[:limit]
	}
	return opps
}
