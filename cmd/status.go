package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jetdock/rentalwatch/internal/countdown"
	"github.com/jetdock/rentalwatch/internal/rentals"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print active rentals with their countdowns (non-interactive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := newSource(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		list, err := src.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active rentals: %w", err)
		}
		return printStatus(os.Stdout, rentals.FilterActive(list), cfg.Alerts.WarningThreshold.Duration, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(out io.Writer, list []rentals.ActiveRental, threshold time.Duration, now time.Time) error {
	if len(list) == 0 {
		fmt.Fprintln(out, "No active rentals.")
		return nil
	}

	sort.SliceStable(list, func(i, j int) bool {
		ei, iok := list[i].EndTime()
		ej, jok := list[j].EndTime()
		if iok && jok {
			return ei.Before(ej)
		}
		return iok && !jok
	})

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EQUIPMENT\tCUSTOMER\tCHECKED IN\tREMAINING\tSTATE")
	fmt.Fprintln(w, "─────────\t────────\t──────────\t─────────\t─────")
	for _, r := range list {
		remaining, state := "—", "open-ended"
		if reading, ok := countdown.Evaluate(r, threshold, now); ok {
			remaining, state = reading.Label, string(reading.Urgency)
		}
		equipment := r.EquipmentLabel
		if equipment == "" {
			equipment = r.ID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", equipment, r.CustomerName, r.FormatCheckIn(), remaining, state)
	}
	return w.Flush()
}
