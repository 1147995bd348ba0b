// Package pipeline provides the high-level orchestration of the screening,
// analysis, and delivery stages.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prismsignal/prism/internal/alert"
	"github.com/prismsignal/prism/internal/config"
	"github.com/prismsignal/prism/internal/db"
	"github.com/prismsignal/prism/internal/notify"
	"github.com/prismsignal/prism/internal/pdfconv"
	"github.com/prismsignal/prism/internal/report"
	"github.com/prismsignal/prism/internal/tracking"
	"github.com/prismsignal/prism/internal/trigger"
)

// TriggerRunner runs the screening subprocess.
type TriggerRunner interface {
	Run(ctx context.Context, mode, resultsPath string) (exitCode int, stdout, stderr string, err error)
}

// ReportGenerator produces report artifacts for a selection.
type ReportGenerator interface {
	Generate(ctx context.Context, selections []trigger.TickerSelection, mode string) []report.Artifact
}

// DocumentConverter converts report artifacts into documents.
type DocumentConverter interface {
	ConvertAll(ctx context.Context, reports []report.Artifact) []pdfconv.Artifact
}

// MessageComposer composes notification messages for documents.
type MessageComposer interface {
	ComposeAll(ctx context.Context, docs []pdfconv.Artifact) []notify.Artifact
}

// Deliverer sends alerts, messages, and documents to the configured channels.
type Deliverer interface {
	Enabled() bool
	ChannelID() string
	SendAlert(ctx context.Context, text string) error
	DeliverMessages(ctx context.Context, messages []notify.Artifact) []notify.Artifact
	DeliverDocuments(ctx context.Context, docs []pdfconv.Artifact) []pdfconv.Artifact
}

// Orchestrator sequences the pipeline stages and contains failures at each
// stage boundary. All collaborators are injected; the orchestrator performs
// no external calls of its own.
type Orchestrator struct {
	cfg       *config.Config
	runner    TriggerRunner
	generator ReportGenerator
	converter DocumentConverter
	composer  MessageComposer
	deliverer Deliverer
	tracker   tracking.Tracker
	store     *db.DB // nil disables run persistence
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrchestrator wires the pipeline components together. store may be nil.
func NewOrchestrator(
	cfg *config.Config,
	runner TriggerRunner,
	generator ReportGenerator,
	converter DocumentConverter,
	composer MessageComposer,
	deliverer Deliverer,
	tracker tracking.Tracker,
	store *db.DB,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		runner:    runner,
		generator: generator,
		converter: converter,
		composer:  composer,
		deliverer: deliverer,
		tracker:   tracker,
		store:     store,
		now:       time.Now,
		logger:    logger,
	}
}

// Execute runs the full pipeline for one mode. Stage failures degrade the
// run toward Done instead of aborting the process, and a stage panic is
// recovered into a Failed run; the returned Run carries the terminal stage
// and outcome.
func (o *Orchestrator) Execute(ctx context.Context, mode string) (run *Run) {
	run = &Run{Mode: mode, Language: o.cfg.Language, Stage: StageIdle}
	runLog := o.logger.With().Str("mode", mode).Logger()
	runLog.Info().Msg("pipeline started")

	runID := o.createRun(ctx, mode)
	defer func() {
		if r := recover(); r != nil {
			runLog.Error().Interface("panic", r).Str("stage", string(run.Stage)).Msg("pipeline panicked")
			run.Outcome = db.OutcomeFailed
			run.advance(StageFailed)
		}
		o.completeRun(ctx, runID, run.Outcome)
		runLog.Info().Str("stage", string(run.Stage)).Str("outcome", run.Outcome).Msg("pipeline finished")
	}()

	run.advance(StageTriggerRun)
	result, selections := o.runTrigger(ctx, runLog, mode)
	run.Selections = selections
	o.recordStage(ctx, runID, StageTriggerRun, 0, len(selections), "")

	if len(selections) == 0 {
		runLog.Warn().Msg("no instruments selected; ending run")
		run.Outcome = db.OutcomeNoSignals
		run.advance(StageDone)
		return run
	}

	// The alert goes out before report generation starts. A send failure is
	// logged and never blocks the reports.
	o.sendAlert(ctx, runLog, mode, result)
	run.advance(StageAlertSent)
	o.recordStage(ctx, runID, StageAlertSent, len(selections), len(selections), "")

	run.advance(StageReporting)
	run.Reports = o.generator.Generate(ctx, selections, mode)
	o.recordStage(ctx, runID, StageReporting, len(selections), len(run.Reports), "")
	if len(run.Reports) == 0 {
		runLog.Warn().Int("selected", len(selections)).Msg("no reports generated; ending run")
		run.Outcome = db.OutcomeReportsFailed
		run.advance(StageDone)
		return run
	}

	run.advance(StageConverting)
	run.Documents = o.converter.ConvertAll(ctx, run.Reports)
	o.recordStage(ctx, runID, StageConverting, len(run.Reports), len(run.Documents), "")
	if len(run.Documents) == 0 {
		runLog.Warn().Msg("no documents produced; ending run")
		run.Outcome = db.OutcomeReportsFailed
		run.advance(StageDone)
		return run
	}

	run.advance(StageNotifying)
	run.Messages = o.composer.ComposeAll(ctx, run.Documents)
	o.recordStage(ctx, runID, StageNotifying, len(run.Documents), len(run.Messages), "")
	if len(run.Messages) == 0 {
		runLog.Warn().Msg("no messages composed; ending run")
		run.Outcome = db.OutcomeReportsFailed
		run.advance(StageDone)
		return run
	}

	run.advance(StageDelivering)
	sentMessages := o.deliverer.DeliverMessages(ctx, run.Messages)
	sentDocs := o.deliverer.DeliverDocuments(ctx, run.Documents)
	o.recordStage(ctx, runID, StageDelivering, len(run.Messages)+len(run.Documents), len(sentMessages)+len(sentDocs), "")

	// Tracking is entered because documents exist. Its failure is logged and
	// does not change the terminal outcome.
	run.advance(StageTracking)
	chatID := ""
	if o.deliverer.Enabled() {
		chatID = o.deliverer.ChannelID()
	}
	if err := o.tracker.Track(ctx, run.Documents, chatID); err != nil {
		cerr := &CollaboratorError{Stage: StageTracking, Cause: err}
		runLog.Error().Err(cerr).Msg("tracking hand-off failed")
		o.recordStage(ctx, runID, StageTracking, len(run.Documents), 0, cerr.Error())
	} else {
		o.recordStage(ctx, runID, StageTracking, len(run.Documents), len(run.Documents), "")
	}

	run.Outcome = db.OutcomeCompleted
	run.advance(StageDone)
	return run
}

// runTrigger executes the screening subprocess and loads its result file.
// Any failure yields an empty selection. The result file is never read after
// a nonzero exit, so stale files from earlier runs cannot leak in.
func (o *Orchestrator) runTrigger(ctx context.Context, runLog zerolog.Logger, mode string) (*trigger.TriggerResult, []trigger.TickerSelection) {
	resultsPath := trigger.ResultsPath(o.cfg.ResultsDir, mode, o.now().Format("20060102"))

	exitCode, stdout, stderr, err := o.runner.Run(ctx, mode, resultsPath)
	if stdout != "" {
		runLog.Info().Msg("screening output:\n" + stdout)
	}
	if stderr != "" {
		runLog.Warn().Msg("screening stderr:\n" + stderr)
	}
	if err != nil {
		runLog.Error().Err(&CollaboratorError{Stage: StageTriggerRun, Cause: err}).Msg("screening subprocess failed to start")
		return nil, nil
	}
	if exitCode != 0 {
		runLog.Error().Int("exit_code", exitCode).Msg("screening subprocess exited nonzero")
		return nil, nil
	}

	result, err := trigger.Load(resultsPath)
	if err != nil {
		runLog.Error().Err(err).Msg("failed to load screening result")
		return nil, nil
	}

	selections := result.Flatten()
	runLog.Info().Int("selected", len(selections)).Msg("instrument selection complete")
	return result, selections
}

func (o *Orchestrator) sendAlert(ctx context.Context, runLog zerolog.Logger, mode string, result *trigger.TriggerResult) {
	if result == nil {
		return
	}
	tradeDate := result.TradeDate(o.now().Format("20060102"))
	text, err := alert.Compose(mode, result, tradeDate)
	if err != nil {
		runLog.Error().Err(err).Msg("alert composition failed")
		return
	}
	if err := o.deliverer.SendAlert(ctx, text); err != nil {
		runLog.Error().Err(&CollaboratorError{Stage: StageAlertSent, Cause: err}).Msg("alert delivery failed")
		return
	}
	runLog.Info().Msg("signal alert sent")
}

func (o *Orchestrator) createRun(ctx context.Context, mode string) uuid.UUID {
	if o.store == nil {
		return uuid.Nil
	}
	id, err := o.store.CreateRun(ctx, mode, o.cfg.Language)
	if err != nil {
		o.logger.Warn().Err(err).Msg("failed to create run record")
		return uuid.Nil
	}
	return id
}

func (o *Orchestrator) recordStage(ctx context.Context, runID uuid.UUID, stage Stage, in, out int, errMsg string) {
	if o.store == nil || runID == uuid.Nil {
		return
	}
	if err := o.store.RecordStage(ctx, runID, string(stage), in, out, errMsg); err != nil {
		o.logger.Warn().Err(err).Str("stage", string(stage)).Msg("failed to record stage")
	}
}

func (o *Orchestrator) completeRun(ctx context.Context, runID uuid.UUID, outcome string) {
	if o.store == nil || runID == uuid.Nil {
		return
	}
	if err := o.store.CompleteRun(ctx, runID, outcome); err != nil {
		o.logger.Warn().Err(err).Msg("failed to complete run record")
	}
}
