package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jetdock/rentalwatch/internal/logging"
	"github.com/jetdock/rentalwatch/internal/sound"
)

var soundOutput string

var soundCmd = &cobra.Command{
	Use:       "sound <warning|expired|success>",
	Short:     "Play an alert sound to check audio output",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(sound.KindWarning), string(sound.KindExpired), string(sound.KindSuccess)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := sound.ParseKind(args[0])
		if err != nil {
			return err
		}

		output := cfg.Sound.Output
		if soundOutput != "" {
			output = soundOutput
		}
		log := logging.NewConsole(os.Stderr, cfg.Log.Level)
		engine, err := newEngine(cfg, output, log)
		if err != nil {
			return err
		}
		if !engine.Initialize() {
			cmd.PrintErrln("No audio output available.")
			return nil
		}

		engine.Play(kind)
		p, _ := sound.PatternFor(kind)
		// Outputs play asynchronously; stay alive until the pattern ends.
		time.Sleep(p.Duration() + 200*time.Millisecond)
		return nil
	},
}

func init() {
	soundCmd.Flags().StringVar(&soundOutput, "output", "", "sound output (auto, oto, beeep, bell)")
	rootCmd.AddCommand(soundCmd)
}
