package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-news/internal/types"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
)

// CreateRun records the start of a collection run and returns its ID
func (db *DB) CreateRun(ctx context.Context, ownerID string, profile types.JobProfile) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO news_runs (owner_id, job_group, job_role, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		ownerID, profile.JobGroup, profile.JobRole, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun stores the final counters and status of a run
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, summary types.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE news_runs SET status = $1, summary = $2, completed_at = NOW() WHERE id = $3`,
		status, summaryJSON, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}
