package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trendops/backend/pkg/models"
)

// PostgresCampaignStore is a PostgreSQL implementation of the append-only
// CampaignStore interface. There is deliberately no update or delete.
type PostgresCampaignStore struct {
	db *pgxpool.Pool
}

// NewPostgresCampaignStore creates a new PostgresCampaignStore.
func NewPostgresCampaignStore(db *pgxpool.Pool) *PostgresCampaignStore {
	return &PostgresCampaignStore{db: db}
}

const campaignColumns = "id, name, objective, campaign_type, parameters, reach, engagement, conversions, revenue, spend, roi, what_worked, what_didnt, patterns, recommendations, confidence, created_at"

// Append inserts a campaign memory.
func (s *PostgresCampaignStore) Append(ctx context.Context, mem *models.CampaignMemory) error {
	var params []byte
	if mem.Parameters != nil {
		var err error
		params, err = json.Marshal(mem.Parameters)
		if err != nil {
			return fmt.Errorf("marshal parameters: %w", err)
		}
	}
	_, err := s.db.Exec(ctx,
		"INSERT INTO campaign_memories ("+campaignColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())",
		mem.ID, mem.Name, mem.Objective, string(mem.CampaignType), params,
		mem.Outcome.Reach, mem.Outcome.Engagement, mem.Outcome.Conversions,
		mem.Outcome.Revenue, mem.Outcome.Spend, mem.Outcome.ROI,
		mem.WhatWorked, mem.WhatDidnt, mem.Patterns, mem.Recommendations,
		mem.Confidence)
	return err
}

// Get retrieves a campaign memory by ID.
func (s *PostgresCampaignStore) Get(ctx context.Context, id string) (*models.CampaignMemory, error) {
	mem, err := scanCampaign(s.db.QueryRow(ctx,
		"SELECT "+campaignColumns+" FROM campaign_memories WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	return mem, err
}

// RecentMatching returns memories whose objective contains the substring or
// whose type matches, filtered by minimum confidence, newest first.
func (s *PostgresCampaignStore) RecentMatching(ctx context.Context, objective string, ctype models.CampaignType, minConfidence float64, limit int) ([]models.CampaignMemory, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+campaignColumns+" FROM campaign_memories WHERE (objective ILIKE '%' || $1 || '%' OR campaign_type = $2) AND confidence >= $3 ORDER BY created_at DESC LIMIT $4",
		objective, string(ctype), minConfidence, limit)
	if err != nil {
		return nil, fmt.Errorf("query matching campaigns: %w", err)
	}
	return collectCampaigns(rows)
}

// TopByROI returns memories of the exact type with ROI at or above minROI,
// highest ROI first.
func (s *PostgresCampaignStore) TopByROI(ctx context.Context, ctype models.CampaignType, minROI float64, limit int) ([]models.CampaignMemory, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+campaignColumns+" FROM campaign_memories WHERE campaign_type = $1 AND roi >= $2 ORDER BY roi DESC LIMIT $3",
		string(ctype), minROI, limit)
	if err != nil {
		return nil, fmt.Errorf("query campaigns by roi: %w", err)
	}
	return collectCampaigns(rows)
}

// ByType returns every memory of the exact campaign type.
func (s *PostgresCampaignStore) ByType(ctx context.Context, ctype models.CampaignType) ([]models.CampaignMemory, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+campaignColumns+" FROM campaign_memories WHERE campaign_type = $1",
		string(ctype))
	if err != nil {
		return nil, fmt.Errorf("query campaigns by type: %w", err)
	}
	return collectCampaigns(rows)
}

func scanCampaign(row pgx.Row) (*models.CampaignMemory, error) {
	var mem models.CampaignMemory
	var params []byte
	err := row.Scan(&mem.ID, &mem.Name, &mem.Objective, &mem.CampaignType, &params,
		&mem.Outcome.Reach, &mem.Outcome.Engagement, &mem.Outcome.Conversions,
		&mem.Outcome.Revenue, &mem.Outcome.Spend, &mem.Outcome.ROI,
		&mem.WhatWorked, &mem.WhatDidnt, &mem.Patterns, &mem.Recommendations,
		&mem.Confidence, &mem.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &mem.Parameters); err != nil {
			return nil, fmt.Errorf("unmarshal parameters: %w", err)
		}
	}
	return &mem, nil
}

func collectCampaigns(rows pgx.Rows) ([]models.CampaignMemory, error) {
	defer rows.Close()
	var out []models.CampaignMemory
	for rows.Next() {
		mem, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *mem)
	}
	return out, rows.Err()
}
