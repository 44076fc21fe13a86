package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendops/backend/pkg/models"
)

func candidate(stage models.LifecycleStage, relevance, coeff float64) models.TrendCandidate {
	return models.TrendCandidate{
		ID:             "c-" + string(stage),
		Topic:          "topic",
		Stage:          stage,
		RelevanceScore: relevance,
		ViralCoeff:     coeff,
		SourceQuality:  50,
	}
}

func TestScoreBounded(t *testing.T) {
	cases := []models.TrendCandidate{
		candidate(models.StageGrowing, 0, 0),
		candidate(models.StageGrowing, 100, 100),
		candidate(models.StageDead, -20, 500),
		candidate(models.StagePeak, 85, 90),
	}
	for _, c := range cases {
		s := Score(c)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestScoreMonotone(t *testing.T) {
	base := candidate(models.StageEmerging, 40, 40)
	moreRelevant := base
	moreRelevant.RelevanceScore = 70
	moreViral := base
	moreViral.ViralCoeff = 70

	assert.GreaterOrEqual(t, Score(moreRelevant), Score(base))
	assert.GreaterOrEqual(t, Score(moreViral), Score(base))
}

func TestUrgencyFor(t *testing.T) {
	assert.Equal(t, models.UrgencyCritical, UrgencyFor(models.StagePeak, 10))
	assert.Equal(t, models.UrgencyHigh, UrgencyFor(models.StageGrowing, 80))
	assert.Equal(t, models.UrgencyLow, UrgencyFor(models.StageGrowing, 79))
	assert.Equal(t, models.UrgencyMedium, UrgencyFor(models.StageEmerging, 99))
	assert.Equal(t, models.UrgencyLow, UrgencyFor(models.StageDead, 99))
}

func TestPeakOutranksDead(t *testing.T) {
	peak := BuildOpportunity(candidate(models.StagePeak, 85, 90))
	dead := BuildOpportunity(candidate(models.StageDead, 5, 10))

	ranked := DedupeRank(0, []models.TrendOpportunity{dead, peak})
	assert.Equal(t, peak.ID, ranked[0].ID)
	assert.Greater(t, ranked[0].OpportunityScore, ranked[1].OpportunityScore)
	assert.Equal(t, models.UrgencyCritical, peak.Urgency)
}

func TestDedupeRankKeepsHighestInstance(t *testing.T) {
	low := models.TrendOpportunity{ID: "x", OpportunityScore: 40}
	high := models.TrendOpportunity{ID: "x", OpportunityScore: 80}
	other := models.TrendOpportunity{ID: "y", OpportunityScore: 60}

	ranked := DedupeRank(10, []models.TrendOpportunity{low, other}, []models.TrendOpportunity{high})
	assert.Len(t, ranked, 2)
	assert.Equal(t, "x", ranked[0].ID)
	assert.Equal(t, 80.0, ranked[0].OpportunityScore)
}

func TestDedupeRankIdempotent(t *testing.T) {
	in := []models.TrendOpportunity{
		{ID: "a", OpportunityScore: 70},
		{ID: "b", OpportunityScore: 90},
		{ID: "a", OpportunityScore: 50},
	}
	first := DedupeRank(5, in)
	second := DedupeRank(5, first)
	assert.Equal(t, first, second)
}

func TestDedupeRankTruncates(t *testing.T) {
	in := []models.TrendOpportunity{
		{ID: "a", OpportunityScore: 70},
		{ID: "b", OpportunityScore: 90},
		{ID: "c", OpportunityScore: 50},
	}
	ranked := DedupeRank(2, in)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].ID)
}

func TestDaysToNextStage(t *testing.T) {
	remaining, ok := DaysToNextStage(models.StageEmerging, 10)
	assert.True(t, ok)
	assert.Equal(t, 4, remaining)

	remaining, ok = DaysToNextStage(models.StageGrowing, 45)
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	_, ok = DaysToNextStage(models.StageDead, 3)
	assert.False(t, ok)
}

func TestTransitionImminent(t *testing.T) {
	assert.True(t, TransitionImminent(models.StageEmerging, 8))
	assert.False(t, TransitionImminent(models.StageEmerging, 2))
	assert.False(t, TransitionImminent(models.StageDead, 100))
}
