package services

import (
	"time"

	"trendops/backend/pkg/models"
)

// Performance classification bands relative to the brief's view target.
const (
	exceedingFactor = 1.2
	meetingFactor   = 0.8
)

// TrackerService produces post-publication performance snapshots. Metrics
// platforms lag well behind publication, so early snapshots are estimated
// from the draft's quality and the brief's reach; the classification against
// targets is what downstream phases consume.
type TrackerService struct {
	now func() time.Time
}

// NewTrackerService creates a new TrackerService.
func NewTrackerService() *TrackerService {
	return &TrackerService{now: time.Now}
}

// Snapshot estimates one performance report for a published draft against
// its brief's targets. One snapshot per tracked item per run.
func (s *TrackerService) Snapshot(draft models.ContentDraft, brief models.ContentBrief, published int) models.PerformanceReport {
	// Quality-weighted share of the estimated reach, scaled by how many
	// distribution steps actually landed.
	traffic := int64(float64(brief.EstimatedReach) * draft.QualityScore / 100)
	if published > 1 {
		traffic += traffic / int64(published)
	}
	engagement := int64(float64(traffic) * engagementRate)
	conversions := int64(float64(traffic) * conversionRate)

	return models.PerformanceReport{
		DraftID:     draft.ID,
		Traffic:     traffic,
		Engagement:  engagement,
		Conversions: conversions,
		Revenue:     float64(conversions) * 25, // assumed order value
		Overall:     classify(traffic, brief.Targets.Views),
		MeasuredAt:  s.now(),
	}
}

func classify(traffic, target int64) models.PerformanceCategory {
	if target <= 0 {
		return models.PerformanceMeeting
	}
	switch {
	case float64(traffic) >= float64(target)*exceedingFactor:
		return models.PerformanceExceeding
	case float64(traffic) >= float64(target)*meetingFactor:
		return models.PerformanceMeeting
	default:
		return models.PerformanceUnder
	}
}
