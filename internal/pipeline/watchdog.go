package pipeline

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// StartWatchdog arms a hard deadline for the whole process. When the budget
// elapses the process exits with status 1 so the scheduler surfaces the hang.
// The returned stop function disarms the watchdog after a clean finish.
func StartWatchdog(budget time.Duration, logger zerolog.Logger) (stop func()) {
	timer := time.AfterFunc(budget, func() {
		logger.Error().Dur("budget", budget).Msg("watchdog budget exhausted; terminating")
		os.Exit(1)
	})
	logger.Info().Dur("budget", budget).Msg("watchdog armed")
	return func() { timer.Stop() }
}
