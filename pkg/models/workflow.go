package models

import "time"

// WorkflowStatus is the orchestrator state machine's current state. Within a
// run the status only moves forward; COMPLETED and FAILED are terminal.
type WorkflowStatus string

const (
	StatusAnalyzing WorkflowStatus = "ANALYZING"
	StatusPlanning  WorkflowStatus = "PLANNING"
	StatusExecuting WorkflowStatus = "EXECUTING"
	StatusLearning  WorkflowStatus = "LEARNING"
	StatusCompleted WorkflowStatus = "COMPLETED"
	StatusFailed    WorkflowStatus = "FAILED"
)

// Strategy controls the merge order of the emerging and viral opportunity
// lists during the ANALYZING phase. It changes nothing else.
type Strategy string

const (
	StrategyViralFirst      Strategy = "viral-first"
	StrategyEvergreenFirst  Strategy = "evergreen-first"
	StrategyConversionFirst Strategy = "conversion-first"
	StrategyBalanced        Strategy = "balanced"
)

// AnalyzingState is the state recorded after the ANALYZING phase settles.
type AnalyzingState struct {
	TrendsDetected int      `json:"trends_detected"`
	AlertsRaised   int      `json:"alerts_raised"`
	Strategy       Strategy `json:"strategy"`
}

// PlanningState is the state recorded after the PLANNING phase settles.
type PlanningState struct {
	BriefsCreated       int     `json:"briefs_created"`
	Skipped             int     `json:"skipped"`
	TotalEstimatedReach int64   `json:"total_estimated_reach"`
	AvgPriorityScore    float64 `json:"avg_priority_score"`
}

// ExecutingState is the state recorded after the EXECUTING phase settles.
type ExecutingState struct {
	DraftsProduced    int `json:"drafts_produced"`
	ReadyToPublish    int `json:"ready_to_publish"`
	NeedsRevision     int `json:"needs_revision"`
	ContentPublished  int `json:"content_published"`
	DistributionSteps int `json:"distribution_steps"`
	ItemFailures      int `json:"item_failures"`
}

// LearningState is the state recorded after the LEARNING phase settles.
type LearningState struct {
	ItemsSampled   int      `json:"items_sampled"`
	AvgPerformance float64  `json:"avg_performance"`
	Learnings      []string `json:"learnings"`
	Impact         Impact   `json:"impact"`
}

// Impact aggregates the run's estimated downstream effect.
type Impact struct {
	Reach       int64   `json:"reach"`
	Engagement  int64   `json:"engagement"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// PhaseState is a tagged union keyed by phase. Exactly one of the phase
// structs is set, matching Phase.
type PhaseState struct {
	Phase     WorkflowStatus  `json:"phase"`
	Analyzing *AnalyzingState `json:"analyzing,omitempty"`
	Planning  *PlanningState  `json:"planning,omitempty"`
	Executing *ExecutingState `json:"executing,omitempty"`
	Learning  *LearningState  `json:"learning,omitempty"`
}

// RunReport is the final structured report persisted when a run completes.
type RunReport struct {
	Analyzing AnalyzingState `json:"analyzing"`
	Planning  PlanningState  `json:"planning"`
	Executing ExecutingState `json:"executing"`
	Learning  LearningState  `json:"learning"`
}

// WorkflowExecution is the run-level aggregate, owned exclusively by the
// orchestrator. Created at run start, updated at every phase transition,
// terminal once COMPLETED or FAILED.
type WorkflowExecution struct {
	ID           string         `json:"id" db:"id"`
	WorkflowType string         `json:"workflow_type" db:"workflow_type"`
	Status       WorkflowStatus `json:"status" db:"status"`
	States       []PhaseState   `json:"states" db:"states"`
	Report       *RunReport     `json:"report,omitempty" db:"report"`
	Error        string         `json:"error,omitempty" db:"error"`
	StartedAt    time.Time      `json:"started_at" db:"started_at"`
	EndedAt      *time.Time     `json:"ended_at,omitempty" db:"ended_at"`
}

// WorkflowStatusView is the read-only dashboard answer for a workflow type:
// the latest execution plus running totals over recent completed runs.
type WorkflowStatusView struct {
	Latest *WorkflowExecution `json:"latest,omitempty"`
	Totals RunningTotals      `json:"totals"`
}

// RunningTotals aggregates the most recent completed runs of a workflow type.
type RunningTotals struct {
	RunsCounted      int     `json:"runs_counted"`
	TrendsDetected   int     `json:"trends_detected"`
	BriefsCreated    int     `json:"briefs_created"`
	DraftsProduced   int     `json:"drafts_produced"`
	ContentPublished int     `json:"content_published"`
	EstimatedReach   int64   `json:"estimated_reach"`
	AvgQuality       float64 `json:"avg_quality"`
}
