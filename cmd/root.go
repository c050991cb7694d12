package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jetdock/rentalwatch/internal/config"
	"github.com/jetdock/rentalwatch/internal/version"
)

var (
	configPath string
	logLevel   string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rentalwatch",
	Short: "Rental expiry countdowns and alerts for the rental backoffice",
	Long: `rentalwatch watches the active rentals of a jet-ski and boat rental
backoffice, counts down every rental to its expected return time and raises
a toast, a sound and a desktop notification when a rental is about to end
and again when it is overdue.

Run without arguments to launch the dashboard.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		loaded, err := config.LoadFrom(path)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/rentalwatch/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
