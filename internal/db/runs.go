package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Run outcomes. "no signals today" and "signals existed but every report
// failed" are deliberately distinct so monitoring can tell them apart.
const (
	OutcomeCompleted     = "completed"
	OutcomeNoSignals     = "no_signals"
	OutcomeReportsFailed = "reports_failed"
	OutcomeFailed        = "failed"
)

// CreateRun creates a new pipeline run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, mode, language string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (mode, language, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		mode, language,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a pipeline run as finished with a terminal outcome
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, outcome string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		outcome, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// RecordStage stores one stage's input/output counts and error text for a run
func (db *DB) RecordStage(ctx context.Context, runID uuid.UUID, stage string, inputCount, outputCount int, errMessage string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_stages (run_id, stage, input_count, output_count, error_message)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 ON CONFLICT (run_id, stage) DO UPDATE
		 SET input_count = $3, output_count = $4, error_message = NULLIF($5, ''), recorded_at = NOW()`,
		runID, stage, inputCount, outputCount, errMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record stage %s: %w", stage, err)
	}
	return nil
}
