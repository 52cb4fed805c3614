package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued       RunStatus = "queued"
	RunStatusIngesting    RunStatus = "ingesting"
	RunStatusTransforming RunStatus = "transforming"
	RunStatusAnalyzing    RunStatus = "analyzing"
	RunStatusComplete     RunStatus = "complete"
	RunStatusFailed       RunStatus = "failed"
)

// Run represents a single pipeline run over one upload batch.
type Run struct {
	ID        string     `json:"id"`
	UploadID  string     `json:"upload_id"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Rows    int           `json:"rows"`
	Columns int           `json:"columns"`
	Ingest  *IngestReport `json:"ingest,omitempty"`
	KPIs    *KPIBundle    `json:"kpis,omitempty"`
	Stages  []StageResult `json:"stages"`
	Error   string        `json:"error,omitempty"`
}

// RunStage represents one stage within a run.
type RunStage struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    StageStatus  `json:"status"`
	Result    *StageResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// StageStatus represents the current state of a pipeline stage.
type StageStatus string

const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult holds the outcome of a pipeline stage.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
