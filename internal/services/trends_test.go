package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendops/backend/internal/repository"
	"trendops/backend/pkg/models"
)

// memSignalStore is an in-memory SignalStore mirroring the postgres query
// shapes.
type memSignalStore struct {
	candidates []models.TrendCandidate
	keywords   []models.Keyword
}

func (s *memSignalStore) CandidatesByStage(_ context.Context, stages []models.LifecycleStage, minRelevance float64) ([]models.TrendCandidate, error) {
	return s.filter(stages, func(c models.TrendCandidate) bool { return c.RelevanceScore >= minRelevance }), nil
}

func (s *memSignalStore) ViralCandidates(_ context.Context, stages []models.LifecycleStage, minCoeff float64) ([]models.TrendCandidate, error) {
	return s.filter(stages, func(c models.TrendCandidate) bool { return c.ViralCoeff >= minCoeff }), nil
}

func (s *memSignalStore) filter(stages []models.LifecycleStage, keep func(models.TrendCandidate) bool) []models.TrendCandidate {
	inStage := make(map[models.LifecycleStage]bool)
	for _, st := range stages {
		inStage[st] = true
	}
	var out []models.TrendCandidate
	for _, c := range s.candidates {
		if inStage[c.Stage] && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *memSignalStore) GetCandidate(_ context.Context, id string) (*models.TrendCandidate, error) {
	for _, c := range s.candidates {
		if c.ID == id {
			candidate := c
			return &candidate, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memSignalStore) MatchKeywords(_ context.Context, topic string, limit int) ([]models.Keyword, error) {
	out := s.keywords
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memSignalStore) CreateCandidate(_ context.Context, c *models.TrendCandidate) error {
	s.candidates = append(s.candidates, *c)
	return nil
}

func (s *memSignalStore) CreateKeyword(_ context.Context, k *models.Keyword) error {
	s.keywords = append(s.keywords, *k)
	return nil
}

func TestDetectEmergingSortsByScore(t *testing.T) {
	store := &memSignalStore{candidates: []models.TrendCandidate{
		{ID: "weak", Stage: models.StageEmerging, RelevanceScore: 62, ViralCoeff: 20, SourceQuality: 50},
		{ID: "strong", Stage: models.StageGrowing, RelevanceScore: 95, ViralCoeff: 85, SourceQuality: 80},
	}}
	svc := NewTrendService(store)

	opps, err := svc.DetectEmerging(context.Background(), 60, 10)
	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Equal(t, "strong", opps[0].ID)
	assert.Equal(t, models.UrgencyHigh, opps[0].Urgency)
}

func TestDetectEmergingTruncatesAfterScoring(t *testing.T) {
	// The oldest-listed candidate carries the best opportunity score; the
	// limit must cut by score, never by the store's listing order.
	store := &memSignalStore{candidates: []models.TrendCandidate{
		{ID: "mediocre", Stage: models.StageEmerging, RelevanceScore: 65, ViralCoeff: 30, SourceQuality: 50},
		{ID: "middling", Stage: models.StageEmerging, RelevanceScore: 70, ViralCoeff: 40, SourceQuality: 50},
		{ID: "best", Stage: models.StageGrowing, RelevanceScore: 95, ViralCoeff: 90, SourceQuality: 85},
	}}
	svc := NewTrendService(store)

	opps, err := svc.DetectEmerging(context.Background(), 60, 1)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "best", opps[0].ID)
}

func TestDetectViralTruncatesToLimit(t *testing.T) {
	store := &memSignalStore{candidates: []models.TrendCandidate{
		{ID: "a", Stage: models.StagePeak, RelevanceScore: 50, ViralCoeff: 95},
		{ID: "b", Stage: models.StageGrowing, RelevanceScore: 50, ViralCoeff: 90},
		{ID: "c", Stage: models.StageEmerging, RelevanceScore: 50, ViralCoeff: 85},
	}}
	svc := NewTrendService(store)

	opps, err := svc.DetectViral(context.Background(), 80, 2)
	require.NoError(t, err)
	assert.Len(t, opps, 2)
}

func TestTimeSensitiveAlerts(t *testing.T) {
	now := time.Now()
	store := &memSignalStore{candidates: []models.TrendCandidate{
		{ID: "soon", Stage: models.StageEmerging, StageEnteredAt: now.AddDate(0, 0, -10)},
		{ID: "fresh", Stage: models.StageEmerging, StageEnteredAt: now.AddDate(0, 0, -1)},
	}}
	svc := NewTrendService(store)

	alerts, err := svc.TimeSensitiveAlerts(context.Background(), []string{"soon", "fresh"})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "soon", alerts[0].Opportunity.ID)
	assert.LessOrEqual(t, alerts[0].DaysUntilNext, 7)
	assert.NotEmpty(t, alerts[0].RecommendedAction)
}

func TestTimeSensitiveAlertsMissingCandidate(t *testing.T) {
	svc := NewTrendService(&memSignalStore{})

	_, err := svc.TimeSensitiveAlerts(context.Background(), []string{"ghost"})
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestBuildBriefSkipsWhenNoIdeas(t *testing.T) {
	svc := NewStrategyService(&fakeGenerator{ideas: nil}, &memSignalStore{})

	brief, err := svc.BuildBrief(context.Background(), models.TrendOpportunity{ID: "o1", Topic: "x"}, 3)
	require.NoError(t, err)
	assert.Nil(t, brief)
}

func TestBuildBriefAssemblesTargetsAndKeyword(t *testing.T) {
	store := &memSignalStore{keywords: []models.Keyword{{ID: "kw1", Phrase: "video editing"}}}
	svc := NewStrategyService(&fakeGenerator{ideas: []string{"How AI edits video", "alt"}}, store)

	opp := models.TrendOpportunity{
		ID:               "o1",
		Topic:            "AI video editing",
		OpportunityScore: 88,
		ViralCoeff:       90,
		Format:           models.FormatVideo,
		EstimatedReach:   100000,
	}
	brief, err := svc.BuildBrief(context.Background(), opp, 3)
	require.NoError(t, err)
	require.NotNil(t, brief)

	assert.Equal(t, "How AI edits video", brief.Title)
	assert.Equal(t, models.ChannelVideo, brief.PrimaryChannel)
	assert.Contains(t, brief.SecondaryChannels, models.ChannelSocial)
	assert.Equal(t, 88.0, brief.Priority)
	assert.Equal(t, int64(100000), brief.Targets.Views)
	assert.Equal(t, int64(5000), brief.Targets.Engagement)
	assert.Equal(t, int64(1000), brief.Targets.Conversions)
	assert.Equal(t, "kw1", brief.KeywordID)
	assert.Equal(t, "o1", brief.OpportunityID)
}
