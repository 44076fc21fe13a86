// Package repository defines the persistence interfaces for the pipeline and
// their PostgreSQL implementations.
package repository

import (
	"context"
	"errors"

	"trendops/backend/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist or a query
// population is empty where the caller requires one. Matched with errors.Is.
var ErrNotFound = errors.New("not found")

// SignalStore is read access to the synced trend/keyword signal records.
// Sync jobs that feed it are external; the pipeline only reads.
type SignalStore interface {
	// CandidatesByStage returns every candidate in any of the given stages
	// with relevance at or above minRelevance. No truncation here: the
	// detector ranks by opportunity score first, then cuts.
	CandidatesByStage(ctx context.Context, stages []models.LifecycleStage, minRelevance float64) ([]models.TrendCandidate, error)
	// ViralCandidates returns every candidate in any of the given stages with
	// a viral coefficient at or above minCoeff. No truncation, as above.
	ViralCandidates(ctx context.Context, stages []models.LifecycleStage, minCoeff float64) ([]models.TrendCandidate, error)
	// GetCandidate retrieves a candidate by ID. ErrNotFound if missing.
	GetCandidate(ctx context.Context, id string) (*models.TrendCandidate, error)
	// MatchKeywords returns corpus keywords whose phrase overlaps the topic,
	// highest search volume first.
	MatchKeywords(ctx context.Context, topic string, limit int) ([]models.Keyword, error)
	// CreateCandidate and CreateKeyword exist for seeding only.
	CreateCandidate(ctx context.Context, c *models.TrendCandidate) error
	CreateKeyword(ctx context.Context, k *models.Keyword) error
}

// WorkflowStore persists run-level workflow executions.
type WorkflowStore interface {
	CreateExecution(ctx context.Context, exec *models.WorkflowExecution) error
	UpdateExecution(ctx context.Context, exec *models.WorkflowExecution) error
	// LatestExecution returns the most recently started execution of the
	// given workflow type. ErrNotFound if none exist.
	LatestExecution(ctx context.Context, workflowType string) (*models.WorkflowExecution, error)
	// RecentCompleted returns up to limit COMPLETED executions of the type,
	// newest first.
	RecentCompleted(ctx context.Context, workflowType string, limit int) ([]models.WorkflowExecution, error)
}

// CampaignStore is the append-only campaign memory history. Records are
// never updated or deleted.
type CampaignStore interface {
	Append(ctx context.Context, mem *models.CampaignMemory) error
	// Get retrieves a memory by ID. ErrNotFound if missing.
	Get(ctx context.Context, id string) (*models.CampaignMemory, error)
	// RecentMatching returns up to limit memories, newest first, whose
	// objective contains the substring (case-insensitive) or whose campaign
	// type equals ctype, with confidence at or above minConfidence.
	RecentMatching(ctx context.Context, objective string, ctype models.CampaignType, minConfidence float64, limit int) ([]models.CampaignMemory, error)
	// TopByROI returns up to limit memories of the exact type with ROI at or
	// above minROI, highest ROI first.
	TopByROI(ctx context.Context, ctype models.CampaignType, minROI float64, limit int) ([]models.CampaignMemory, error)
	// ByType returns every memory of the exact campaign type.
	ByType(ctx context.Context, ctype models.CampaignType) ([]models.CampaignMemory, error)
}
