package services

import (
	"fmt"

	"trendops/backend/pkg/models"
)

// Learnings detection thresholds. Rule-based on purpose: the same run
// artifacts always produce the same learnings.
const (
	strongViralAvg      = 75.0
	strongQualityAvg    = 75.0
	socialPriorityCoeff = 85.0
)

// ExtractLearnings classifies a run's artifacts into qualitative learnings.
// No randomness, no free text generation.
func ExtractLearnings(
	opportunities []models.TrendOpportunity,
	drafts []models.ContentDraft,
	reports []models.QualityReport,
	performance []models.PerformanceReport,
) []string {
	var learnings []string

	if avgCoeff := avgViralCoeff(opportunities); len(opportunities) > 0 && avgCoeff >= strongViralAvg {
		learnings = append(learnings,
			fmt.Sprintf("detected trends show strong viral potential (avg coefficient %.0f)", avgCoeff))
	}

	if len(drafts) > 0 {
		avgQuality := 0.0
		for _, d := range drafts {
			avgQuality += d.QualityScore
		}
		avgQuality /= float64(len(drafts))
		if avgQuality >= strongQualityAvg {
			learnings = append(learnings,
				fmt.Sprintf("content generation is producing high-quality drafts (avg %.0f)", avgQuality))
		} else {
			learnings = append(learnings,
				fmt.Sprintf("draft quality is below expectations (avg %.0f); briefs may need tighter scoping", avgQuality))
		}
	}

	if len(reports) > 0 {
		ready := 0
		for _, r := range reports {
			if r.ReadyToPublish {
				ready++
			}
		}
		learnings = append(learnings,
			fmt.Sprintf("%d of %d drafts were ready to publish without revision", ready, len(reports)))
	}

	for _, p := range performance {
		if p.Overall == models.PerformanceExceeding {
			learnings = append(learnings, "published content is exceeding performance targets")
			break
		}
	}

	for _, o := range opportunities {
		if o.Urgency == models.UrgencyCritical {
			learnings = append(learnings, "critical-urgency trends present; rapid production capability pays off")
			break
		}
	}

	for _, o := range opportunities {
		if o.ViralCoeff >= socialPriorityCoeff {
			learnings = append(learnings, "high viral coefficients detected; prioritize social distribution")
			break
		}
	}

	return learnings
}

// AggregateImpact sums the run's performance snapshots into one impact
// figure for the report.
func AggregateImpact(performance []models.PerformanceReport) models.Impact {
	var impact models.Impact
	for _, p := range performance {
		impact.Reach += p.Traffic
		impact.Engagement += p.Engagement
		impact.Conversions += p.Conversions
		impact.Revenue += p.Revenue
	}
	return impact
}

func avgViralCoeff(opps []models.TrendOpportunity) float64 {
	if len(opps) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range opps {
		sum += o.ViralCoeff
	}
	return sum / float64(len(opps))
}
