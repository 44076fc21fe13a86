package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendops/backend/pkg/models"
)

func TestExtractLearningsDeterministic(t *testing.T) {
	opps := []models.TrendOpportunity{
		{ID: "o1", ViralCoeff: 90, Urgency: models.UrgencyCritical},
		{ID: "o2", ViralCoeff: 70, Urgency: models.UrgencyLow},
	}
	drafts := []models.ContentDraft{
		{ID: "d1", QualityScore: 80},
		{ID: "d2", QualityScore: 76},
	}
	reports := []models.QualityReport{
		{DraftID: "d1", ReadyToPublish: true},
		{DraftID: "d2", ReadyToPublish: false},
	}
	perf := []models.PerformanceReport{
		{DraftID: "d1", Overall: models.PerformanceExceeding},
	}

	expected := []string{
		"detected trends show strong viral potential (avg coefficient 80)",
		"content generation is producing high-quality drafts (avg 78)",
		"1 of 2 drafts were ready to publish without revision",
		"published content is exceeding performance targets",
		"critical-urgency trends present; rapid production capability pays off",
		"high viral coefficients detected; prioritize social distribution",
	}

	got := ExtractLearnings(opps, drafts, reports, perf)
	assert.Equal(t, expected, got)

	// Same inputs, same outputs.
	assert.Equal(t, got, ExtractLearnings(opps, drafts, reports, perf))
}

func TestExtractLearningsLowQualityIsNegative(t *testing.T) {
	drafts := []models.ContentDraft{{ID: "d1", QualityScore: 40}}

	got := ExtractLearnings(nil, drafts, nil, nil)
	assert.Contains(t, got[0], "below expectations")
}

func TestExtractLearningsEmptyRun(t *testing.T) {
	assert.Empty(t, ExtractLearnings(nil, nil, nil, nil))
}

func TestAggregateImpact(t *testing.T) {
	perf := []models.PerformanceReport{
		{Traffic: 100, Engagement: 10, Conversions: 2, Revenue: 50},
		{Traffic: 200, Engagement: 30, Conversions: 3, Revenue: 75},
	}
	impact := AggregateImpact(perf)
	assert.Equal(t, int64(300), impact.Reach)
	assert.Equal(t, int64(40), impact.Engagement)
	assert.Equal(t, int64(5), impact.Conversions)
	assert.Equal(t, 125.0, impact.Revenue)
}
