// Package models defines the domain models for the trend-to-content pipeline.
package models

import "time"

// LifecycleStage represents where a trend sits in its emerging-to-dead progression.
type LifecycleStage string

const (
	StageEmerging  LifecycleStage = "EMERGING"
	StageGrowing   LifecycleStage = "GROWING"
	StagePeak      LifecycleStage = "PEAK"
	StageDeclining LifecycleStage = "DECLINING"
	StageDead      LifecycleStage = "DEAD"
)

// Urgency classifies how quickly an opportunity must be acted on.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyLow      Urgency = "LOW"
)

// TrendCandidate is a raw signal record as stored in the signal store,
// before scoring.
type TrendCandidate struct {
	ID             string         `json:"id" db:"id"`
	Topic          string         `json:"topic" db:"topic"`
	Stage          LifecycleStage `json:"stage" db:"stage"`
	RelevanceScore float64        `json:"relevance_score" db:"relevance_score"`
	ViralCoeff     float64        `json:"viral_coefficient" db:"viral_coefficient"`
	SourceQuality  float64        `json:"source_quality" db:"source_quality"`
	EstimatedReach int64          `json:"estimated_reach" db:"estimated_reach"`
	StageEnteredAt time.Time      `json:"stage_entered_at" db:"stage_entered_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// TrendOpportunity is a scored candidate topic. Immutable once scored;
// consumed within the same pipeline run, never persisted independently.
type TrendOpportunity struct {
	ID               string         `json:"id"`
	Topic            string         `json:"topic"`
	Stage            LifecycleStage `json:"stage"`
	OpportunityScore float64        `json:"opportunity_score"`
	RelevanceScore   float64        `json:"relevance_score"`
	ViralCoeff       float64        `json:"viral_coefficient"`
	Urgency          Urgency        `json:"urgency"`
	Format           ContentFormat  `json:"recommended_format"`
	EstimatedReach   int64          `json:"estimated_reach"`
	TimeWindowDays   int            `json:"time_window_days"`
}

// TransitionAlert flags an opportunity that is close to moving to its next
// lifecycle stage and names the action to take while the window is open.
type TransitionAlert struct {
	Opportunity       TrendOpportunity `json:"opportunity"`
	DaysUntilNext     int              `json:"days_until_next_stage"`
	RecommendedAction string           `json:"recommended_action"`
}

// Keyword is a secondary SEO corpus record matched against opportunities
// during strategizing.
type Keyword struct {
	ID           string    `json:"id" db:"id"`
	Phrase       string    `json:"phrase" db:"phrase"`
	SearchVolume int64     `json:"search_volume" db:"search_volume"`
	Difficulty   float64   `json:"difficulty" db:"difficulty"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
