// Package scoring converts raw trend signal records into ranked,
// deduplicated opportunities. Everything here is pure: same inputs, same
// outputs, no I/O.
package scoring

import (
	"sort"

	"trendops/backend/pkg/models"
)

// Scoring weights. Tunable policy, but the weighted sum must stay monotone
// in relevance and viral coefficient and bounded to [0,100].
const (
	weightRelevance     = 0.4
	weightViralCoeff    = 0.3
	weightStage         = 0.2
	weightSourceQuality = 0.1
)

// stageWeights orders lifecycle stages by how much runway they leave for
// content to land.
var stageWeights = map[models.LifecycleStage]float64{
	models.StageGrowing:   100,
	models.StageEmerging:  90,
	models.StagePeak:      70,
	models.StageDeclining: 30,
	models.StageDead:      0,
}

// stageDurationDays is the assumed dwell time per lifecycle stage. DEAD has
// no next stage.
var stageDurationDays = map[models.LifecycleStage]int{
	models.StageEmerging:  14,
	models.StageGrowing:   30,
	models.StagePeak:      21,
	models.StageDeclining: 45,
}

// transitionThresholdDays is how close to a stage boundary a candidate must
// be before it is flagged as time sensitive.
const transitionThresholdDays = 7

// Score computes the opportunity score for a raw candidate, clamped to
// [0,100].
func Score(c models.TrendCandidate) float64 {
	s := clamp(c.RelevanceScore)*weightRelevance +
		clamp(c.ViralCoeff)*weightViralCoeff +
		stageWeights[c.Stage]*weightStage +
		clamp(c.SourceQuality)*weightSourceQuality
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// UrgencyFor derives urgency from lifecycle stage and viral coefficient.
func UrgencyFor(stage models.LifecycleStage, viralCoeff float64) models.Urgency {
	switch {
	case stage == models.StagePeak:
		return models.UrgencyCritical
	case stage == models.StageGrowing && viralCoeff >= 80:
		return models.UrgencyHigh
	case stage == models.StageEmerging:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

// FormatFor recommends a content format for a stage. Fast-moving stages get
// fast formats.
func FormatFor(stage models.LifecycleStage) models.ContentFormat {
	switch stage {
	case models.StagePeak:
		return models.FormatThread
	case models.StageGrowing:
		return models.FormatVideo
	default:
		return models.FormatArticle
	}
}

// BuildOpportunity scores a candidate into an immutable opportunity.
func BuildOpportunity(c models.TrendCandidate) models.TrendOpportunity {
	return models.TrendOpportunity{
		ID:               c.ID,
		Topic:            c.Topic,
		Stage:            c.Stage,
		OpportunityScore: Score(c),
		RelevanceScore:   c.RelevanceScore,
		ViralCoeff:       c.ViralCoeff,
		Urgency:          UrgencyFor(c.Stage, c.ViralCoeff),
		Format:           FormatFor(c.Stage),
		EstimatedReach:   c.EstimatedReach,
		TimeWindowDays:   stageDurationDays[c.Stage],
	}
}

// DedupeRank merges candidate lists, keeps the highest-scoring instance of
// each unique ID, sorts descending by opportunity score and truncates to
// limit. limit <= 0 means no truncation. Idempotent for identical inputs.
func DedupeRank(limit int, lists ...[]models.TrendOpportunity) []models.TrendOpportunity {
	best := make(map[string]models.TrendOpportunity)
	order := make([]string, 0)
	for _, list := range lists {
		for _, opp := range list {
			prev, seen := best[opp.ID]
			if !seen {
				best[opp.ID] = opp
				order = append(order, opp.ID)
				continue
			}
			if opp.OpportunityScore > prev.OpportunityScore {
				best[opp.ID] = opp
			}
		}
	}

	ranked := make([]models.TrendOpportunity, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, best[id])
	}
	// Stable sort keeps first-seen order among equal scores so the merge
	// order chosen by the caller's strategy survives ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OpportunityScore > ranked[j].OpportunityScore
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// DaysToNextStage estimates how many days remain before the candidate moves
// to its next lifecycle stage. The second return is false for DEAD, which
// has no next stage.
func DaysToNextStage(stage models.LifecycleStage, daysInStage int) (int, bool) {
	total, ok := stageDurationDays[stage]
	if !ok {
		return 0, false
	}
	remaining := total - daysInStage
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// TransitionImminent reports whether a candidate is within the alert window
// of its next stage boundary.
func TransitionImminent(stage models.LifecycleStage, daysInStage int) bool {
	remaining, ok := DaysToNextStage(stage, daysInStage)
	return ok && remaining <= transitionThresholdDays
}

// RecommendedAction names what to do with a trend about to leave its stage.
func RecommendedAction(stage models.LifecycleStage) string {
	switch stage {
	case models.StageEmerging:
		return "prepare content now to ride the growth phase"
	case models.StageGrowing:
		return "publish immediately before the trend peaks"
	case models.StagePeak:
		return "ship short-form reactions only; long-form will land late"
	case models.StageDeclining:
		return "wrap up coverage; archive evergreen pieces"
	default:
		return "no action; trend is no longer viable"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
