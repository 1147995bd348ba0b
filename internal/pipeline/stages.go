package pipeline

import (
	"github.com/prismsignal/prism/internal/notify"
	"github.com/prismsignal/prism/internal/pdfconv"
	"github.com/prismsignal/prism/internal/report"
	"github.com/prismsignal/prism/internal/trigger"
)

// Stage is the orchestrator's position in a run. The cursor only advances;
// Failed is reachable from any state.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageTriggerRun Stage = "trigger_run"
	StageAlertSent  Stage = "alert_sent"
	StageReporting  Stage = "reporting"
	StageConverting Stage = "converting"
	StageNotifying  Stage = "notifying"
	StageDelivering Stage = "delivering"
	StageTracking   Stage = "tracking"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Run is the session state for one pipeline execution. It is owned
// exclusively by the orchestrator and discarded at process exit.
type Run struct {
	Mode     string
	Language string
	Stage    Stage

	Selections []trigger.TickerSelection
	Reports    []report.Artifact
	Documents  []pdfconv.Artifact
	Messages   []notify.Artifact

	// Outcome is one of the db.Outcome* values once Stage is terminal.
	Outcome string
}

func (r *Run) advance(s Stage) {
	r.Stage = s
}
