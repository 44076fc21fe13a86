package models

import "time"

// ContentFormat is the shape of content a brief asks for.
type ContentFormat string

const (
	FormatArticle    ContentFormat = "article"
	FormatVideo      ContentFormat = "video"
	FormatThread     ContentFormat = "thread"
	FormatNewsletter ContentFormat = "newsletter"
)

// Channel identifies a distribution channel.
type Channel string

const (
	ChannelBlog       Channel = "blog"
	ChannelNewsletter Channel = "newsletter"
	ChannelSocial     Channel = "social"
	ChannelVideo      Channel = "video"
)

// TargetMetrics are the per-brief outcome targets used later by the tracker.
type TargetMetrics struct {
	Views       int64 `json:"views"`
	Engagement  int64 `json:"engagement"`
	Conversions int64 `json:"conversions"`
}

// ContentBrief is the strategy artifact for one piece of content. At most one
// draft is produced per brief per run.
type ContentBrief struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Format            ContentFormat `json:"format"`
	PrimaryChannel    Channel       `json:"primary_channel"`
	SecondaryChannels []Channel     `json:"secondary_channels,omitempty"`
	Priority          float64       `json:"priority"`
	Targets           TargetMetrics `json:"targets"`
	OpportunityID     string        `json:"opportunity_id"`
	KeywordID         string        `json:"keyword_id,omitempty"`
	EstimatedReach    int64         `json:"estimated_reach"`
}

// ContentDraft is generated content. The SEO score may be rewritten by a
// single optimization pass; the draft is frozen once a publishing plan is
// built from it.
type ContentDraft struct {
	ID           string  `json:"id"`
	BriefID      string  `json:"brief_id"`
	Title        string  `json:"title"`
	Body         string  `json:"body"`
	WordCount    int     `json:"word_count"`
	QualityScore float64 `json:"quality_score"`
	SEOScore     float64 `json:"seo_score"`
}

// QualityReport is the gate decision over a draft. Computed once per draft.
type QualityReport struct {
	DraftID         string   `json:"draft_id"`
	SEOQuality      float64  `json:"seo_quality"`
	ReadyToPublish  bool     `json:"ready_to_publish"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// DistributionStep is one ordered step of a publishing plan.
type DistributionStep struct {
	Channel Channel `json:"channel"`
	Action  string  `json:"action"`
	Order   int     `json:"order"`
}

// PublishingPlan is built only for drafts whose quality report said ready.
type PublishingPlan struct {
	DraftID           string             `json:"draft_id"`
	PrimaryChannel    Channel            `json:"primary_channel"`
	SecondaryChannels []Channel          `json:"secondary_channels,omitempty"`
	ScheduledAt       time.Time          `json:"scheduled_at"`
	Steps             []DistributionStep `json:"steps"`
}

// StepResult is the per-channel outcome of executing one distribution step.
type StepResult struct {
	Channel   Channel `json:"channel"`
	Succeeded bool    `json:"succeeded"`
	Detail    string  `json:"detail,omitempty"`
	PostURL   string  `json:"post_url,omitempty"`
}

// PerformanceCategory classifies a snapshot against the brief's targets.
type PerformanceCategory string

const (
	PerformanceExceeding PerformanceCategory = "EXCEEDING"
	PerformanceMeeting   PerformanceCategory = "MEETING"
	PerformanceUnder     PerformanceCategory = "UNDER"
)

// PerformanceReport is a single post-publication snapshot, one per tracked
// item per run.
type PerformanceReport struct {
	DraftID     string              `json:"draft_id"`
	Traffic     int64               `json:"traffic"`
	Engagement  int64               `json:"engagement"`
	Conversions int64               `json:"conversions"`
	Revenue     float64             `json:"revenue"`
	Overall     PerformanceCategory `json:"overall_performance"`
	MeasuredAt  time.Time           `json:"measured_at"`
}
