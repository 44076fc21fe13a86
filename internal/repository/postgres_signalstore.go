package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trendops/backend/pkg/models"
)

// PostgresSignalStore is a PostgreSQL implementation of the SignalStore
// interface.
type PostgresSignalStore struct {
	db *pgxpool.Pool
}

// NewPostgresSignalStore creates a new PostgresSignalStore.
func NewPostgresSignalStore(db *pgxpool.Pool) *PostgresSignalStore {
	return &PostgresSignalStore{db: db}
}

const candidateColumns = "id, topic, stage, relevance_score, viral_coefficient, source_quality, estimated_reach, stage_entered_at, created_at"

func scanCandidate(row pgx.Row) (*models.TrendCandidate, error) {
	var c models.TrendCandidate
	err := row.Scan(&c.ID, &c.Topic, &c.Stage, &c.RelevanceScore, &c.ViralCoeff,
		&c.SourceQuality, &c.EstimatedReach, &c.StageEnteredAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCandidates(rows pgx.Rows) ([]models.TrendCandidate, error) {
	defer rows.Close()
	var out []models.TrendCandidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func stageNames(stages []models.LifecycleStage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return names
}

// CandidatesByStage returns every candidate in the given stages with
// relevance at or above minRelevance, newest first. The caller truncates
// after scoring; a LIMIT here would drop high-opportunity candidates for
// merely being older than the cut.
func (s *PostgresSignalStore) CandidatesByStage(ctx context.Context, stages []models.LifecycleStage, minRelevance float64) ([]models.TrendCandidate, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+candidateColumns+" FROM trend_candidates WHERE stage = ANY($1) AND relevance_score >= $2 ORDER BY created_at DESC",
		stageNames(stages), minRelevance)
	if err != nil {
		return nil, fmt.Errorf("query candidates by stage: %w", err)
	}
	return collectCandidates(rows)
}

// ViralCandidates returns every candidate in the given stages with a viral
// coefficient at or above minCoeff. No LIMIT, same reason as above.
func (s *PostgresSignalStore) ViralCandidates(ctx context.Context, stages []models.LifecycleStage, minCoeff float64) ([]models.TrendCandidate, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+candidateColumns+" FROM trend_candidates WHERE stage = ANY($1) AND viral_coefficient >= $2 ORDER BY viral_coefficient DESC",
		stageNames(stages), minCoeff)
	if err != nil {
		return nil, fmt.Errorf("query viral candidates: %w", err)
	}
	return collectCandidates(rows)
}

// GetCandidate retrieves a candidate by ID.
func (s *PostgresSignalStore) GetCandidate(ctx context.Context, id string) (*models.TrendCandidate, error) {
	c, err := scanCandidate(s.db.QueryRow(ctx,
		"SELECT "+candidateColumns+" FROM trend_candidates WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// MatchKeywords returns keywords whose phrase overlaps the topic text,
// highest search volume first.
func (s *PostgresSignalStore) MatchKeywords(ctx context.Context, topic string, limit int) ([]models.Keyword, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, phrase, search_volume, difficulty, created_at FROM keywords WHERE phrase ILIKE '%' || $1 || '%' OR $1 ILIKE '%' || phrase || '%' ORDER BY search_volume DESC LIMIT $2",
		topic, limit)
	if err != nil {
		return nil, fmt.Errorf("match keywords: %w", err)
	}
	defer rows.Close()

	var out []models.Keyword
	for rows.Next() {
		var k models.Keyword
		if err := rows.Scan(&k.ID, &k.Phrase, &k.SearchVolume, &k.Difficulty, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// CreateCandidate inserts a candidate record. Seeding only.
func (s *PostgresSignalStore) CreateCandidate(ctx context.Context, c *models.TrendCandidate) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO trend_candidates (id, topic, stage, relevance_score, viral_coefficient, source_quality, estimated_reach, stage_entered_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		c.ID, c.Topic, string(c.Stage), c.RelevanceScore, c.ViralCoeff, c.SourceQuality, c.EstimatedReach, c.StageEnteredAt)
	return err
}

// CreateKeyword inserts a keyword record. Seeding only.
func (s *PostgresSignalStore) CreateKeyword(ctx context.Context, k *models.Keyword) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO keywords (id, phrase, search_volume, difficulty) VALUES ($1, $2, $3, $4)",
		k.ID, k.Phrase, k.SearchVolume, k.Difficulty)
	return err
}
