package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jetdock/rentalwatch/internal/alerts"
	"github.com/jetdock/rentalwatch/internal/logging"
	"github.com/jetdock/rentalwatch/internal/notify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run alerts without the dashboard, logging toasts to stderr",
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logging.NewConsole(os.Stderr, cfg.Log.Level)
		s, err := newSession(cfg, notify.LogSink{Log: logging.Component(log, "toast")}, log)
		if err != nil {
			return err
		}

		// There is no user interaction to wait for in headless mode.
		s.coord.ArmSound()

		s.poller.Start(ctx)
		log.Info().
			Dur("poll_interval", cfg.Polling.Interval.Duration).
			Dur("warning_threshold", cfg.Alerts.WarningThreshold.Duration).
			Msg("watching active rentals")
		s.coord.Run(ctx)
		logAlertSummary(log, s.coord.Store())
		log.Info().Msg("stopped")
		return nil
	},
}

// logAlertSummary logs the alerts still held for active rentals.
func logAlertSummary(log zerolog.Logger, store *alerts.Store) {
	for _, r := range store.Records() {
		log.Info().
			Str("rental_id", r.RentalID).
			Str("kind", string(r.Kind)).
			Time("fired_at", r.TriggeredAt).
			Msg("alert fired this session")
	}
	log.Info().Int("rentals_alerted", store.Len()).Msg("alert summary")
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
