package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendops/backend/internal/repository"
	"trendops/backend/pkg/models"
)

// memCampaignStore is an in-memory CampaignStore mirroring the postgres
// query shapes.
type memCampaignStore struct {
	memories []models.CampaignMemory
}

func (s *memCampaignStore) Append(_ context.Context, mem *models.CampaignMemory) error {
	s.memories = append(s.memories, *mem)
	return nil
}

func (s *memCampaignStore) Get(_ context.Context, id string) (*models.CampaignMemory, error) {
	for _, m := range s.memories {
		if m.ID == id {
			mem := m
			return &mem, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memCampaignStore) RecentMatching(_ context.Context, objective string, ctype models.CampaignType, minConfidence float64, limit int) ([]models.CampaignMemory, error) {
	var out []models.CampaignMemory
	for _, m := range s.memories {
		match := strings.Contains(strings.ToLower(m.Objective), strings.ToLower(objective)) || m.CampaignType == ctype
		if match && m.Confidence >= minConfidence {
			out = append(out, m)
		}
	}
	// Newest first; the slice is append-only so reverse insertion order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memCampaignStore) TopByROI(_ context.Context, ctype models.CampaignType, minROI float64, limit int) ([]models.CampaignMemory, error) {
	var out []models.CampaignMemory
	for _, m := range s.memories {
		if m.CampaignType == ctype && m.Outcome.ROI >= minROI {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Outcome.ROI > out[j].Outcome.ROI })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memCampaignStore) ByType(_ context.Context, ctype models.CampaignType) ([]models.CampaignMemory, error) {
	var out []models.CampaignMemory
	for _, m := range s.memories {
		if m.CampaignType == ctype {
			out = append(out, m)
		}
	}
	return out, nil
}

func memory(ctype models.CampaignType, roi, confidence float64, patterns ...string) models.CampaignMemory {
	return models.CampaignMemory{
		ID:           uuid.New().String(),
		Name:         "campaign",
		Objective:    string(ctype) + " objective",
		CampaignType: ctype,
		Outcome:      models.CampaignOutcome{ROI: roi},
		Patterns:     patterns,
		Confidence:   confidence,
	}
}

func TestClassifyObjective(t *testing.T) {
	assert.Equal(t, models.CampaignAwareness, ClassifyObjective("Build Brand Awareness in Q3"))
	assert.Equal(t, models.CampaignConversion, ClassifyObjective("drive more sales"))
	assert.Equal(t, models.CampaignEngagement, ClassifyObjective("community engagement sprint"))
	assert.Equal(t, models.CampaignRetention, ClassifyObjective("customer loyalty program"))
	assert.Equal(t, models.CampaignOther, ClassifyObjective("something else entirely"))
}

func TestGetPatternsRanksByFrequency(t *testing.T) {
	store := &memCampaignStore{memories: []models.CampaignMemory{
		memory(models.CampaignConversion, 150, 80, "A", "A", "B"),
		memory(models.CampaignConversion, 120, 75, "A", "C"),
		memory(models.CampaignConversion, 110, 90, "B"),
	}}
	svc := NewCampaignService(store)

	patterns, err := svc.GetPatterns(context.Background(), "conversion")
	require.NoError(t, err)
	require.NotEmpty(t, patterns)
	assert.Equal(t, "A", patterns[0])
}

func TestGetPatternsSkipsLowConfidence(t *testing.T) {
	store := &memCampaignStore{memories: []models.CampaignMemory{
		memory(models.CampaignConversion, 150, 30, "low-confidence-pattern"),
	}}
	svc := NewCampaignService(store)

	patterns, err := svc.GetPatterns(context.Background(), "conversion")
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestGetRecommendationsFallbackOnEmptyHistory(t *testing.T) {
	svc := NewCampaignService(&memCampaignStore{})

	recs, err := svc.GetRecommendations(context.Background(), models.CampaignAwareness)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	for _, r := range recs {
		assert.Contains(t, r, "no historical data")
	}
}

func TestGetRecommendationsPrependsROISummary(t *testing.T) {
	m1 := memory(models.CampaignConversion, 200, 80)
	m1.Recommendations = []string{"lead with video", "lead with video"}
	m2 := memory(models.CampaignConversion, 100, 80)
	m2.Recommendations = []string{"lead with video", "shorten the funnel"}
	store := &memCampaignStore{memories: []models.CampaignMemory{m1, m2}}
	svc := NewCampaignService(store)

	recs, err := svc.GetRecommendations(context.Background(), models.CampaignConversion)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(recs), 3)
	assert.Contains(t, recs[0], "150% ROI")
	assert.Equal(t, "lead with video", recs[1])
}

func TestBenchmarkCampaign(t *testing.T) {
	low := memory(models.CampaignConversion, 50, 80)
	mid := memory(models.CampaignConversion, 150, 80)
	high := memory(models.CampaignConversion, 300, 80)
	store := &memCampaignStore{memories: []models.CampaignMemory{low, mid, high}}
	svc := NewCampaignService(store)

	bench, err := svc.BenchmarkCampaign(context.Background(), high.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, bench.SampleSize)
	assert.InDelta(t, 100.0, bench.Percentile, 0.1)
	assert.Equal(t, "above_average", bench.Standing)
	assert.InDelta(t, 100.0, bench.AvgROI, 0.1)

	bench, err = svc.BenchmarkCampaign(context.Background(), mid.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, bench.Percentile, 0.1)
	assert.Equal(t, "average", bench.Standing)

	bench, err = svc.BenchmarkCampaign(context.Background(), low.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, bench.Percentile, 0.1)
	assert.Equal(t, "below_average", bench.Standing)
}

func TestBenchmarkCampaignSingletonTypeIsNotFound(t *testing.T) {
	only := memory(models.CampaignRetention, 180, 80)
	store := &memCampaignStore{memories: []models.CampaignMemory{only}}
	svc := NewCampaignService(store)

	// A campaign that is the only one of its type has nothing to compare
	// against; a zero benchmark would be fabricated.
	_, err := svc.BenchmarkCampaign(context.Background(), only.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestBenchmarkCampaignMissingIsNotFound(t *testing.T) {
	svc := NewCampaignService(&memCampaignStore{})

	_, err := svc.BenchmarkCampaign(context.Background(), uuid.New().String())
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestRecordOutcomeDerivesTypeAndROI(t *testing.T) {
	store := &memCampaignStore{}
	svc := NewCampaignService(store)

	mem, err := svc.RecordOutcome(context.Background(), CampaignOutcomeInput{
		Name:       "launch",
		Objective:  "drive conversions for launch week",
		Outcome:    models.CampaignOutcome{Reach: 1000, Revenue: 3000, Spend: 1000},
		WhatWorked: []string{"video"},
		WhatDidnt:  []string{"banners"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.CampaignConversion, mem.CampaignType)
	assert.Equal(t, 200.0, mem.Outcome.ROI)
	assert.Equal(t, []string{"video"}, mem.Patterns)
	assert.Contains(t, mem.Recommendations, "repeat: video")
	assert.Contains(t, mem.Recommendations, "avoid: banners")
	assert.GreaterOrEqual(t, mem.Confidence, PatternMinConfidence)
	assert.Len(t, store.memories, 1)
}
