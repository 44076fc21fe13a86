package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"trendops/backend/internal/repository"
	"trendops/backend/pkg/models"
)

// Memory-mining policy. The numbers are long-standing business policy;
// they are named here so nobody has to hunt for literals in query code.
const (
	PatternMinConfidence   = 60.0
	PatternRecentWindow    = 20
	PatternTopN            = 10
	RecommendationMinROI   = 100.0
	RecommendationPoolSize = 10
	RecommendationTopN     = 5
	PercentileAboveAverage = 70.0
	PercentileBelowAverage = 30.0
)

// TypeClassifier maps a free-text objective to a campaign type. Pluggable so
// the substring heuristic can be swapped for a strict enum input without
// touching the mining logic.
type TypeClassifier func(objective string) models.CampaignType

// ClassifyObjective is the default classifier: case-insensitive substring
// match, first match wins, falls back to "other".
func ClassifyObjective(objective string) models.CampaignType {
	lowered := strings.ToLower(objective)
	ordered := []struct {
		keyword string
		ctype   models.CampaignType
	}{
		{"awareness", models.CampaignAwareness},
		{"brand", models.CampaignAwareness},
		{"conversion", models.CampaignConversion},
		{"sales", models.CampaignConversion},
		{"engagement", models.CampaignEngagement},
		{"community", models.CampaignEngagement},
		{"retention", models.CampaignRetention},
		{"loyalty", models.CampaignRetention},
	}
	for _, entry := range ordered {
		if strings.Contains(lowered, entry.keyword) {
			return entry.ctype
		}
	}
	return models.CampaignOther
}

// fallbackRecommendations is returned when no profitable history exists for
// a campaign type.
var fallbackRecommendations = []string{
	"no historical data for this campaign type; start with a small test budget",
	"no historical data for this campaign type; run an A/B test before scaling",
	"no historical data for this campaign type; track ROI from day one to build the memory",
}

// CampaignOutcomeInput is what a caller reports when a campaign finishes.
type CampaignOutcomeInput struct {
	Name       string                 `json:"name"`
	Objective  string                 `json:"objective"`
	Parameters map[string]string      `json:"parameters,omitempty"`
	Outcome    models.CampaignOutcome `json:"outcome"`
	WhatWorked []string               `json:"what_worked,omitempty"`
	WhatDidnt  []string               `json:"what_didnt,omitempty"`
}

// CampaignService mines the append-only campaign history for strategy bias.
type CampaignService struct {
	store    repository.CampaignStore
	Classify TypeClassifier
}

// NewCampaignService creates a new CampaignService with the default
// objective classifier.
func NewCampaignService(store repository.CampaignStore) *CampaignService {
	return &CampaignService{store: store, Classify: ClassifyObjective}
}

// RecordOutcome appends a campaign memory distilled from a reported outcome.
func (s *CampaignService) RecordOutcome(ctx context.Context, in CampaignOutcomeInput) (*models.CampaignMemory, error) {
	outcome := in.Outcome
	if outcome.ROI == 0 && outcome.Spend > 0 {
		outcome.ROI = (outcome.Revenue - outcome.Spend) / outcome.Spend * 100
	}

	mem := &models.CampaignMemory{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Objective:    in.Objective,
		CampaignType: s.Classify(in.Objective),
		Parameters:   in.Parameters,
		Outcome:      outcome,
		WhatWorked:   in.WhatWorked,
		WhatDidnt:    in.WhatDidnt,
		Patterns:     in.WhatWorked,
		Confidence:   confidenceFor(in),
	}
	for _, w := range in.WhatWorked {
		mem.Recommendations = append(mem.Recommendations, "repeat: "+w)
	}
	for _, w := range in.WhatDidnt {
		mem.Recommendations = append(mem.Recommendations, "avoid: "+w)
	}

	if err := s.store.Append(ctx, mem); err != nil {
		return nil, fmt.Errorf("append campaign memory: %w", err)
	}
	return mem, nil
}

// GetPatterns mines the most frequent patterns from recent confident
// memories matching the objective text or its derived type.
func (s *CampaignService) GetPatterns(ctx context.Context, objective string) ([]string, error) {
	memories, err := s.store.RecentMatching(ctx, objective, s.Classify(objective),
		PatternMinConfidence, PatternRecentWindow)
	if err != nil {
		return nil, err
	}

	var all []string
	for _, m := range memories {
		all = append(all, m.Patterns...)
	}
	return rankByFrequency(all, PatternTopN), nil
}

// GetRecommendations mines recommendations from profitable campaigns of the
// exact type, prefixed with a synthesized average-ROI sentence. With no
// profitable history it returns the fixed fallback list.
func (s *CampaignService) GetRecommendations(ctx context.Context, ctype models.CampaignType) ([]string, error) {
	memories, err := s.store.TopByROI(ctx, ctype, RecommendationMinROI, RecommendationPoolSize)
	if err != nil {
		return nil, err
	}
	if len(memories) == 0 {
		return fallbackRecommendations, nil
	}

	var all []string
	totalROI := 0.0
	for _, m := range memories {
		all = append(all, m.Recommendations...)
		totalROI += m.Outcome.ROI
	}
	avgROI := totalROI / float64(len(memories))

	ranked := rankByFrequency(all, RecommendationTopN)
	out := make([]string, 0, len(ranked)+1)
	out = append(out, fmt.Sprintf("similar %s campaigns averaged %.0f%% ROI across %d runs", ctype, avgROI, len(memories)))
	out = append(out, ranked...)
	return out, nil
}

// BenchmarkCampaign compares one campaign against all memories sharing its
// type. ErrNotFound when no same-type population exists; a benchmark of
// zeros would be a lie.
func (s *CampaignService) BenchmarkCampaign(ctx context.Context, id string) (*models.CampaignBenchmark, error) {
	target, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sameType, err := s.store.ByType(ctx, target.CampaignType)
	if err != nil {
		return nil, err
	}
	// The target never benchmarks against itself; a campaign that is the
	// only one of its type has no population.
	peers := make([]models.CampaignMemory, 0, len(sameType))
	for _, p := range sameType {
		if p.ID != target.ID {
			peers = append(peers, p)
		}
	}
	if len(peers) == 0 {
		return nil, fmt.Errorf("no other %s campaigns to benchmark against: %w", target.CampaignType, repository.ErrNotFound)
	}

	bench := &models.CampaignBenchmark{
		CampaignID:   target.ID,
		CampaignType: target.CampaignType,
		SampleSize:   len(peers),
	}
	lower := 0
	for _, p := range peers {
		bench.AvgROI += p.Outcome.ROI
		bench.AvgReach += float64(p.Outcome.Reach)
		bench.AvgEngagement += float64(p.Outcome.Engagement)
		bench.AvgConversions += float64(p.Outcome.Conversions)
		if p.Outcome.ROI < target.Outcome.ROI {
			lower++
		}
	}
	n := float64(len(peers))
	bench.AvgROI /= n
	bench.AvgReach /= n
	bench.AvgEngagement /= n
	bench.AvgConversions /= n
	bench.Percentile = float64(lower) / n * 100

	switch {
	case bench.Percentile >= PercentileAboveAverage:
		bench.Standing = "above_average"
	case bench.Percentile >= PercentileBelowAverage:
		bench.Standing = "average"
	default:
		bench.Standing = "below_average"
	}
	return bench, nil
}

// rankByFrequency orders distinct entries by how often they occur, most
// frequent first, first-seen order breaking ties, truncated to limit.
func rankByFrequency(entries []string, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, e := range entries {
		if counts[e] == 0 {
			order = append(order, e)
		}
		counts[e]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

func confidenceFor(in CampaignOutcomeInput) float64 {
	confidence := 50.0
	if in.Outcome.Reach > 0 && in.Outcome.Revenue > 0 {
		confidence += 20
	}
	if len(in.WhatWorked) > 0 {
		confidence += 15
	}
	if len(in.WhatDidnt) > 0 {
		confidence += 10
	}
	if confidence > 95 {
		confidence = 95
	}
	return confidence
}
