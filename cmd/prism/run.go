package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prismsignal/prism/internal/config"
	"github.com/prismsignal/prism/internal/db"
	"github.com/prismsignal/prism/internal/llm"
	"github.com/prismsignal/prism/internal/logger"
	"github.com/prismsignal/prism/internal/marketday"
	"github.com/prismsignal/prism/internal/notify"
	"github.com/prismsignal/prism/internal/pdfconv"
	"github.com/prismsignal/prism/internal/pipeline"
	"github.com/prismsignal/prism/internal/report"
	"github.com/prismsignal/prism/internal/telegram"
	"github.com/prismsignal/prism/internal/tracking"
	"github.com/prismsignal/prism/internal/trigger"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the screening and delivery pipeline end-to-end",
	Long: `Orchestrates the batch process: screening subprocess -> result parsing ->
signal alert -> sequential report generation -> PDF conversion -> notification
composition -> Telegram delivery -> tracking hand-off.

Morning and afternoon sessions run back to back when --mode both is given.`,
	RunE: runPipelineCmd,
}

var (
	runMode            string
	runLanguage        string
	runNoTelegram      bool
	runDatabaseURL     string
	runSkipMarketCheck bool
	runWatchdog        time.Duration
	runAPIKey          string
	runPDFBackend      string
	runFontPath        string
	runLogLevel        string
	runLogDir          string
)

func init() {
	runCommand.Flags().StringVarP(&runMode, "mode", "m", "both", "Session to run: morning, afternoon, or both")
	runCommand.Flags().StringVarP(&runLanguage, "language", "l", "ko", "Report language: ko or en")
	runCommand.Flags().BoolVar(&runNoTelegram, "no-telegram", false, "Disable Telegram delivery (artifacts are still produced)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL for run persistence (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().BoolVar(&runSkipMarketCheck, "skip-market-check", false, "Run even on weekends and market holidays")
	runCommand.Flags().DurationVar(&runWatchdog, "watchdog", config.DefaultWatchdogBudget, "Wall-clock budget for the whole process")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")

	runCommand.Flags().StringVar(&runPDFBackend, "pdf-backend", "embedded", "PDF rendering backend: embedded or browser (requires Chrome)")
	runCommand.Flags().StringVar(&runFontPath, "font", os.Getenv("PDF_FONT_PATH"), "TTF font for the embedded PDF backend (needed for Korean text)")
	runCommand.Flags().StringVar(&runLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	runCommand.Flags().StringVar(&runLogDir, "log-dir", "logs", "Directory for the dated log file (empty disables file logging)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	modes, err := sessionModes(runMode)
	if err != nil {
		return err
	}
	if runLanguage != "ko" && runLanguage != "en" {
		return fmt.Errorf("invalid language %q: must be ko or en", runLanguage)
	}

	if runLogDir != "" {
		if err := os.MkdirAll(runLogDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	log, err := logger.New(logger.Config{Level: runLogLevel, Dir: runLogDir})
	if err != nil {
		return err
	}

	cfg := config.New()
	cfg.Language = runLanguage
	cfg.SkipMarketCheck = runSkipMarketCheck
	cfg.WatchdogBudget = runWatchdog
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Delivery configuration is the only fatal pre-run check.
	cfg.Delivery = config.LoadDelivery(!runNoTelegram, []string{"ko", "en"})
	if err := cfg.Delivery.Validate(); err != nil {
		return err
	}

	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	if !cfg.SkipMarketCheck && !marketday.IsTradingDay(time.Now()) {
		log.Info().Msg("market is closed today; nothing to do")
		return nil
	}

	apiKey := runAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("gemini API key is required: pass --api-key or set GEMINI_API_KEY")
	}

	llmCfg := llm.DefaultConfig()
	client, err := llm.NewGeminiClient(ctx, llmCfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	var store *db.DB
	if cfg.DatabaseURL != "" {
		store, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("run persistence unavailable; continuing without it")
			store = nil
		} else {
			defer store.Close()
		}
	}

	backend, err := pdfconv.NewBackend(runPDFBackend, runFontPath, log)
	if err != nil {
		return err
	}

	tg := telegram.NewClient(cfg.Delivery.BotToken)
	gateway := telegram.NewGateway(&cfg.Delivery, tg, cfg.SentDir(), log)

	orchestrator := pipeline.NewOrchestrator(
		cfg,
		trigger.NewRunner(cfg.TriggerCommand, log),
		report.NewGenerator(llm.NewAnalyst(client), cfg.ReportsDir, llmCfg.ModelTag, cfg.Language, cfg.ReportTimeout, log),
		pdfconv.NewConverter(backend, cfg.PDFDir, log),
		notify.NewComposer(llm.NewSummarizer(client), cfg.MessagesDir, cfg.Language, log),
		gateway,
		tracking.NewDigestTracker(tg, log),
		store,
		log,
	)

	stop := pipeline.StartWatchdog(cfg.WatchdogBudget, log)
	defer stop()

	for _, mode := range modes {
		run := orchestrator.Execute(ctx, mode)
		log.Info().
			Str("mode", run.Mode).
			Str("outcome", run.Outcome).
			Int("selected", len(run.Selections)).
			Int("reports", len(run.Reports)).
			Int("documents", len(run.Documents)).
			Msg("session complete")
	}
	return nil
}

func sessionModes(mode string) ([]string, error) {
	switch mode {
	case "morning":
		return []string{"morning"}, nil
	case "afternoon":
		return []string{"afternoon"}, nil
	case "both":
		return []string{"morning", "afternoon"}, nil
	default:
		return nil, fmt.Errorf("invalid mode %q: must be morning, afternoon, or both", mode)
	}
}
