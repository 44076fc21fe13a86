package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"trendops/backend/internal/config"
	"trendops/backend/internal/logging"
	"trendops/backend/internal/repository"
	"trendops/backend/internal/services"
	"trendops/backend/pkg/models"
)

var withCampaigns bool

func main() {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed trend candidates, keywords and campaign history for local dev",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&withCampaigns, "with-campaigns", true, "also seed a small campaign memory history")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	logger := logging.NewLogger("trendops-seed")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, repository.Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("Schema applied")

	// Skip seeding into a non-empty signal store to prevent duplicates.
	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM trend_candidates").Scan(&count); err != nil {
		return err
	}
	signals := repository.NewPostgresSignalStore(pool)
	if count > 0 {
		logger.Info("Signal store already seeded, skipping", "candidates", count)
	} else {
		if err := seedSignals(ctx, signals, logger); err != nil {
			return err
		}
	}

	if withCampaigns {
		if err := seedCampaigns(ctx, pool, logger); err != nil {
			return err
		}
	}

	logger.Info("Seeding complete!")
	return nil
}

func seedSignals(ctx context.Context, signals repository.SignalStore, logger *logging.Logger) error {
	now := time.Now()
	candidates := []models.TrendCandidate{
		{Topic: "AI-assisted video editing", Stage: models.StageGrowing, RelevanceScore: 88, ViralCoeff: 82, SourceQuality: 75, EstimatedReach: 250000, StageEnteredAt: now.AddDate(0, 0, -26)},
		{Topic: "Zero-click search results", Stage: models.StageEmerging, RelevanceScore: 80, ViralCoeff: 55, SourceQuality: 80, EstimatedReach: 90000, StageEnteredAt: now.AddDate(0, 0, -4)},
		{Topic: "Short-form B2B explainers", Stage: models.StagePeak, RelevanceScore: 85, ViralCoeff: 90, SourceQuality: 70, EstimatedReach: 400000, StageEnteredAt: now.AddDate(0, 0, -16)},
		{Topic: "Newsletter cross-promotion", Stage: models.StageGrowing, RelevanceScore: 72, ViralCoeff: 60, SourceQuality: 85, EstimatedReach: 60000, StageEnteredAt: now.AddDate(0, 0, -10)},
		{Topic: "Clubhouse-style audio rooms", Stage: models.StageDeclining, RelevanceScore: 40, ViralCoeff: 20, SourceQuality: 60, EstimatedReach: 15000, StageEnteredAt: now.AddDate(0, 0, -30)},
	}
	for i := range candidates {
		candidates[i].ID = uuid.New().String()
		if err := signals.CreateCandidate(ctx, &candidates[i]); err != nil {
			return fmt.Errorf("seed candidate %q: %w", candidates[i].Topic, err)
		}
		logger.Info("Seeded candidate", "topic", candidates[i].Topic, "stage", candidates[i].Stage)
	}

	keywords := []models.Keyword{
		{Phrase: "video editing", SearchVolume: 120000, Difficulty: 65},
		{Phrase: "b2b video", SearchVolume: 25000, Difficulty: 40},
		{Phrase: "newsletter growth", SearchVolume: 18000, Difficulty: 35},
	}
	for i := range keywords {
		keywords[i].ID = uuid.New().String()
		if err := signals.CreateKeyword(ctx, &keywords[i]); err != nil {
			return fmt.Errorf("seed keyword %q: %w", keywords[i].Phrase, err)
		}
	}
	logger.Info("Seeded keywords", "count", len(keywords))
	return nil
}

func seedCampaigns(ctx context.Context, pool *pgxpool.Pool, logger *logging.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM campaign_memories").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Campaign history already seeded, skipping", "memories", count)
		return nil
	}

	campaigns := services.NewCampaignService(repository.NewPostgresCampaignStore(pool))
	outcomes := []services.CampaignOutcomeInput{
		{
			Name:       "Q1 product awareness push",
			Objective:  "build brand awareness for the spring release",
			Outcome:    models.CampaignOutcome{Reach: 500000, Engagement: 22000, Conversions: 900, Revenue: 30000, Spend: 12000},
			WhatWorked: []string{"short-form video", "creator partnerships"},
			WhatDidnt:  []string{"static display ads"},
		},
		{
			Name:       "Webinar conversion series",
			Objective:  "drive conversions from the webinar audience",
			Outcome:    models.CampaignOutcome{Reach: 80000, Engagement: 9000, Conversions: 1200, Revenue: 54000, Spend: 15000},
			WhatWorked: []string{"short-form video", "email follow-up sequence"},
			WhatDidnt:  []string{"cold outreach"},
		},
		{
			Name:       "Community engagement sprint",
			Objective:  "raise community engagement around the developer forum",
			Outcome:    models.CampaignOutcome{Reach: 45000, Engagement: 15000, Conversions: 200, Revenue: 4000, Spend: 3000},
			WhatWorked: []string{"ama sessions"},
		},
	}
	for _, in := range outcomes {
		mem, err := campaigns.RecordOutcome(ctx, in)
		if err != nil {
			return fmt.Errorf("seed campaign %q: %w", in.Name, err)
		}
		logger.Info("Seeded campaign memory", "name", mem.Name, "type", mem.CampaignType, "roi", mem.Outcome.ROI)
	}
	return nil
}
