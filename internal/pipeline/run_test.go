package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismsignal/prism/internal/config"
	"github.com/prismsignal/prism/internal/db"
	"github.com/prismsignal/prism/internal/logger"
	"github.com/prismsignal/prism/internal/notify"
	"github.com/prismsignal/prism/internal/pdfconv"
	"github.com/prismsignal/prism/internal/report"
	"github.com/prismsignal/prism/internal/trigger"
)

const fixtureResult = `{
	"metadata": {"trade_date": "20260302"},
	"거래량 급증": [
		{"code": "005930", "name": "삼성전자", "current_price": 71500, "change_rate": 2.15}
	],
	"상승률 상위": [
		{"code": "035720", "name": "카카오", "current_price": 48200, "change_rate": 8.73}
	]
}`

type fakeRunner struct {
	exitCode   int
	err        error
	result     string // written to resultsPath when non-empty
	calls      int
	lastOutput string
}

func (f *fakeRunner) Run(_ context.Context, _, resultsPath string) (int, string, string, error) {
	f.calls++
	f.lastOutput = resultsPath
	if f.result != "" {
		if err := os.WriteFile(resultsPath, []byte(f.result), 0o644); err != nil {
			return -1, "", "", err
		}
	}
	return f.exitCode, "screening done", "", f.err
}

type fakeGenerator struct {
	artifacts []report.Artifact
	calls     int
	gotInput  []trigger.TickerSelection
}

func (f *fakeGenerator) Generate(_ context.Context, selections []trigger.TickerSelection, _ string) []report.Artifact {
	f.calls++
	f.gotInput = selections
	return f.artifacts
}

type fakeConverter struct {
	docs  []pdfconv.Artifact
	calls int
}

func (f *fakeConverter) ConvertAll(_ context.Context, _ []report.Artifact) []pdfconv.Artifact {
	f.calls++
	return f.docs
}

type fakeComposer struct {
	messages []notify.Artifact
	calls    int
}

func (f *fakeComposer) ComposeAll(_ context.Context, _ []pdfconv.Artifact) []notify.Artifact {
	f.calls++
	return f.messages
}

type fakeDeliverer struct {
	enabled   bool
	alertErr  error
	alerts    []string
	messages  int
	documents int
}

func (f *fakeDeliverer) Enabled() bool     { return f.enabled }
func (f *fakeDeliverer) ChannelID() string { return "-100123" }

func (f *fakeDeliverer) SendAlert(_ context.Context, text string) error {
	if f.alertErr != nil {
		return f.alertErr
	}
	f.alerts = append(f.alerts, text)
	return nil
}
func (f *fakeDeliverer) DeliverMessages(_ context.Context, messages []notify.Artifact) []notify.Artifact {
	f.messages++
	return messages
}
func (f *fakeDeliverer) DeliverDocuments(_ context.Context, docs []pdfconv.Artifact) []pdfconv.Artifact {
	f.documents++
	return docs
}

type fakeTracker struct {
	err     error
	calls   int
	gotDocs []pdfconv.Artifact
	gotChat string
}

func (f *fakeTracker) Track(_ context.Context, docs []pdfconv.Artifact, chatID string) error {
	f.calls++
	f.gotDocs = docs
	f.gotChat = chatID
	return f.err
}

type fixture struct {
	orch      *Orchestrator
	runner    *fakeRunner
	generator *fakeGenerator
	converter *fakeConverter
	composer  *fakeComposer
	deliverer *fakeDeliverer
	tracker   *fakeTracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.New()
	cfg.ResultsDir = t.TempDir()

	reports := []report.Artifact{
		{Code: "005930", Name: "삼성전자", Path: "/r/005930.md", Content: "# 보고서"},
		{Code: "035720", Name: "카카오", Path: "/r/035720.md", Content: "# 보고서"},
	}
	docs := []pdfconv.Artifact{
		{Code: "005930", Name: "삼성전자", Path: "/p/005930.pdf", ReportPath: "/r/005930.md"},
		{Code: "035720", Name: "카카오", Path: "/p/035720.pdf", ReportPath: "/r/035720.md"},
	}
	messages := []notify.Artifact{
		{Code: "005930", Text: "요약1"},
		{Code: "035720", Text: "요약2"},
	}

	f := &fixture{
		runner:    &fakeRunner{result: fixtureResult},
		generator: &fakeGenerator{artifacts: reports},
		converter: &fakeConverter{docs: docs},
		composer:  &fakeComposer{messages: messages},
		deliverer: &fakeDeliverer{enabled: true},
		tracker:   &fakeTracker{},
	}
	f.orch = NewOrchestrator(cfg, f.runner, f.generator, f.converter, f.composer, f.deliverer, f.tracker, nil, logger.Nop())
	f.orch.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return f
}

func TestExecute_HappyPath(t *testing.T) {
	f := newFixture(t)

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, StageDone, run.Stage)
	assert.Equal(t, db.OutcomeCompleted, run.Outcome)

	// Selection flattened in file order.
	require.Len(t, run.Selections, 2)
	assert.Equal(t, "005930", run.Selections[0].Code)
	assert.Equal(t, "035720", run.Selections[1].Code)

	// The alert carries the metadata trade date.
	require.Len(t, f.deliverer.alerts, 1)
	assert.Contains(t, f.deliverer.alerts[0], "2026.03.02")
	assert.Contains(t, f.deliverer.alerts[0], "삼성전자")

	// All downstream stages ran once, and tracking saw the documents plus
	// the delivery channel.
	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, 1, f.converter.calls)
	assert.Equal(t, 1, f.composer.calls)
	assert.Equal(t, 1, f.deliverer.messages)
	assert.Equal(t, 1, f.deliverer.documents)
	require.Equal(t, 1, f.tracker.calls)
	assert.Len(t, f.tracker.gotDocs, 2)
	assert.Equal(t, "-100123", f.tracker.gotChat)
}

func TestExecute_NonzeroExitEndsWithNoSignals(t *testing.T) {
	f := newFixture(t)
	f.runner.exitCode = 1

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, StageDone, run.Stage)
	assert.Equal(t, db.OutcomeNoSignals, run.Outcome)
	assert.Empty(t, run.Selections)

	// The result file exists on disk but must not be read after a failure.
	_, err := os.Stat(f.runner.lastOutput)
	require.NoError(t, err)
	assert.Equal(t, 0, f.generator.calls)
	assert.Empty(t, f.deliverer.alerts)
}

func TestExecute_SpawnFailureEndsWithNoSignals(t *testing.T) {
	f := newFixture(t)
	f.runner.result = ""
	f.runner.err = errors.New("executable not found")

	run := f.orch.Execute(context.Background(), "morning")
	assert.Equal(t, db.OutcomeNoSignals, run.Outcome)
	assert.Equal(t, 0, f.generator.calls)
}

func TestExecute_MissingResultFileEndsWithNoSignals(t *testing.T) {
	f := newFixture(t)
	f.runner.result = "" // exit 0 but no file written

	run := f.orch.Execute(context.Background(), "morning")
	assert.Equal(t, db.OutcomeNoSignals, run.Outcome)
	assert.Equal(t, 0, f.generator.calls)
}

func TestExecute_EmptySelectionSkipsAlert(t *testing.T) {
	f := newFixture(t)
	f.runner.result = `{"metadata": {"trade_date": "20260302"}, "거래량 급증": []}`

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, db.OutcomeNoSignals, run.Outcome)
	assert.Empty(t, f.deliverer.alerts)
	assert.Equal(t, 0, f.generator.calls)
}

func TestExecute_AllReportsFailed(t *testing.T) {
	f := newFixture(t)
	f.generator.artifacts = nil

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, StageDone, run.Stage)
	assert.Equal(t, db.OutcomeReportsFailed, run.Outcome)
	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, 0, f.converter.calls)
	assert.Equal(t, 0, f.tracker.calls)

	// The alert was still sent before reporting.
	assert.Len(t, f.deliverer.alerts, 1)
}

func TestExecute_AllConversionsFailed(t *testing.T) {
	f := newFixture(t)
	f.converter.docs = nil

	run := f.orch.Execute(context.Background(), "morning")
	assert.Equal(t, db.OutcomeReportsFailed, run.Outcome)
	assert.Equal(t, 0, f.composer.calls)
}

func TestExecute_AllCompositionsFailed(t *testing.T) {
	f := newFixture(t)
	f.composer.messages = nil

	run := f.orch.Execute(context.Background(), "morning")
	assert.Equal(t, db.OutcomeReportsFailed, run.Outcome)
	assert.Equal(t, 0, f.deliverer.messages)
	assert.Equal(t, 0, f.tracker.calls)
}

func TestExecute_AlertFailureDoesNotBlockReports(t *testing.T) {
	f := newFixture(t)
	f.deliverer.alertErr = errors.New("telegram unavailable")

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, db.OutcomeCompleted, run.Outcome)
	assert.Equal(t, 1, f.generator.calls)
}

func TestExecute_TrackingFailureKeepsOutcome(t *testing.T) {
	f := newFixture(t)
	f.tracker.err = errors.New("tracking endpoint down")

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, StageDone, run.Stage)
	assert.Equal(t, db.OutcomeCompleted, run.Outcome)
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, []trigger.TickerSelection, string) []report.Artifact {
	panic("generator blew up")
}

func TestExecute_PanicBecomesFailedRun(t *testing.T) {
	f := newFixture(t)
	f.orch.generator = panickingGenerator{}

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, StageFailed, run.Stage)
	assert.Equal(t, db.OutcomeFailed, run.Outcome)
	assert.Equal(t, 0, f.converter.calls)
}

func TestExecute_DisabledDeliveryPassesEmptyChatToTracking(t *testing.T) {
	f := newFixture(t)
	f.deliverer.enabled = false

	run := f.orch.Execute(context.Background(), "morning")

	assert.Equal(t, db.OutcomeCompleted, run.Outcome)
	require.Equal(t, 1, f.tracker.calls)
	assert.Empty(t, f.tracker.gotChat)
}
