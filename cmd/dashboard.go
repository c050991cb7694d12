package cmd

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jetdock/rentalwatch/internal/logging"
	"github.com/jetdock/rentalwatch/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive TUI dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	// The dashboard owns the terminal, so logs go to a file.
	var logOut io.Writer = io.Discard
	if f, err := logging.OpenFile(cfg.Log.File); err == nil {
		defer f.Close()
		logOut = f
	}
	log := logging.New(logOut, cfg.Log.Level)

	sink := &tui.ProgramSink{}
	s, err := newSession(cfg, sink, log)
	if err != nil {
		return err
	}

	model := tui.NewDashboard(s.poller, s.coord,
		tui.WithThreshold(cfg.Alerts.WarningThreshold.Duration),
		tui.WithMuter(s.engine),
	)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	sink.Attach(program)

	s.poller.Start(ctx)
	go s.coord.Run(ctx)

	log.Info().Str("config", configPath).Msg("dashboard started")
	finalModel, err := program.Run()
	cancel() // Stop poller and coordinator
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	if m, ok := finalModel.(tui.Dashboard); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
