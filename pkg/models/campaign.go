package models

import "time"

// CampaignType is the coarse category a campaign objective maps to.
type CampaignType string

const (
	CampaignAwareness  CampaignType = "awareness"
	CampaignConversion CampaignType = "conversion"
	CampaignEngagement CampaignType = "engagement"
	CampaignRetention  CampaignType = "retention"
	CampaignOther      CampaignType = "other"
)

// CampaignOutcome holds the measured results of a finished campaign.
type CampaignOutcome struct {
	Reach       int64   `json:"reach" db:"reach"`
	Engagement  int64   `json:"engagement" db:"engagement"`
	Conversions int64   `json:"conversions" db:"conversions"`
	Revenue     float64 `json:"revenue" db:"revenue"`
	Spend       float64 `json:"spend" db:"spend"`
	ROI         float64 `json:"roi" db:"roi"`
}

// CampaignMemory is the durable record of one real-world campaign, created
// once per completed campaign and never deleted. It is distinct from a
// WorkflowExecution: a run is one pass of the pipeline, a memory is the
// distilled outcome of a whole campaign.
type CampaignMemory struct {
	ID              string            `json:"id" db:"id"`
	Name            string            `json:"name" db:"name"`
	Objective       string            `json:"objective" db:"objective"`
	CampaignType    CampaignType      `json:"campaign_type" db:"campaign_type"`
	Parameters      map[string]string `json:"parameters,omitempty" db:"parameters"`
	Outcome         CampaignOutcome   `json:"outcome" db:"outcome"`
	WhatWorked      []string          `json:"what_worked,omitempty" db:"what_worked"`
	WhatDidnt       []string          `json:"what_didnt,omitempty" db:"what_didnt"`
	Patterns        []string          `json:"patterns,omitempty" db:"patterns"`
	Recommendations []string          `json:"recommendations,omitempty" db:"recommendations"`
	Confidence      float64           `json:"confidence" db:"confidence"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
}

// CampaignBenchmark compares one campaign against the rest of its type.
type CampaignBenchmark struct {
	CampaignID     string       `json:"campaign_id"`
	CampaignType   CampaignType `json:"campaign_type"`
	SampleSize     int          `json:"sample_size"`
	AvgROI         float64      `json:"avg_roi"`
	AvgReach       float64      `json:"avg_reach"`
	AvgEngagement  float64      `json:"avg_engagement"`
	AvgConversions float64      `json:"avg_conversions"`
	Percentile     float64      `json:"percentile"`
	Standing       string       `json:"standing"`
}
