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

// PostgresWorkflowStore is a PostgreSQL implementation of the WorkflowStore
// interface. Phase states and the final report are stored as JSONB.
type PostgresWorkflowStore struct {
	db *pgxpool.Pool
}

// NewPostgresWorkflowStore creates a new PostgresWorkflowStore.
func NewPostgresWorkflowStore(db *pgxpool.Pool) *PostgresWorkflowStore {
	return &PostgresWorkflowStore{db: db}
}

// CreateExecution inserts a new workflow execution.
func (s *PostgresWorkflowStore) CreateExecution(ctx context.Context, exec *models.WorkflowExecution) error {
	states, report, err := marshalExecution(exec)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO workflow_executions (id, workflow_type, status, states, report, error, started_at, ended_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		exec.ID, exec.WorkflowType, string(exec.Status), states, report, exec.Error, exec.StartedAt, exec.EndedAt)
	return err
}

// UpdateExecution rewrites the mutable fields of an execution.
func (s *PostgresWorkflowStore) UpdateExecution(ctx context.Context, exec *models.WorkflowExecution) error {
	states, report, err := marshalExecution(exec)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		"UPDATE workflow_executions SET status = $1, states = $2, report = $3, error = $4, ended_at = $5 WHERE id = $6",
		string(exec.Status), states, report, exec.Error, exec.EndedAt, exec.ID)
	return err
}

// LatestExecution returns the most recently started execution of the type.
func (s *PostgresWorkflowStore) LatestExecution(ctx context.Context, workflowType string) (*models.WorkflowExecution, error) {
	exec, err := scanExecution(s.db.QueryRow(ctx,
		"SELECT id, workflow_type, status, states, report, error, started_at, ended_at FROM workflow_executions WHERE workflow_type = $1 ORDER BY started_at DESC LIMIT 1",
		workflowType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workflow type %s: %w", workflowType, ErrNotFound)
	}
	return exec, err
}

// RecentCompleted returns up to limit COMPLETED executions, newest first.
func (s *PostgresWorkflowStore) RecentCompleted(ctx context.Context, workflowType string, limit int) ([]models.WorkflowExecution, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, workflow_type, status, states, report, error, started_at, ended_at FROM workflow_executions WHERE workflow_type = $1 AND status = $2 ORDER BY started_at DESC LIMIT $3",
		workflowType, string(models.StatusCompleted), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent completed: %w", err)
	}
	defer rows.Close()

	var out []models.WorkflowExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *exec)
	}
	return out, rows.Err()
}

func marshalExecution(exec *models.WorkflowExecution) (states []byte, report []byte, err error) {
	states, err = json.Marshal(exec.States)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal states: %w", err)
	}
	if exec.Report != nil {
		report, err = json.Marshal(exec.Report)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal report: %w", err)
		}
	}
	return states, report, nil
}

func scanExecution(row pgx.Row) (*models.WorkflowExecution, error) {
	var exec models.WorkflowExecution
	var states, report []byte
	err := row.Scan(&exec.ID, &exec.WorkflowType, &exec.Status, &states, &report,
		&exec.Error, &exec.StartedAt, &exec.EndedAt)
	if err != nil {
		return nil, err
	}
	if len(states) > 0 {
		if err := json.Unmarshal(states, &exec.States); err != nil {
			return nil, fmt.Errorf("unmarshal states: %w", err)
		}
	}
	if len(report) > 0 {
		exec.Report = &models.RunReport{}
		if err := json.Unmarshal(report, exec.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
	}
	return &exec, nil
}
