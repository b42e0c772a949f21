package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bep/debounce"
	"github.com/jsphweid/cadence/midi"
	"github.com/jsphweid/cadence/pipeline"
	"github.com/jsphweid/cadence/tone"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen [port]",
	Short: "Validates chords played on a live MIDI input port",
	Long: `Validates chords played on a live MIDI input port until interrupted.
The port may be given as an index or a name substring; the first available
port is used when omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var spec string
		if len(args) == 1 {
			spec = args[0]
		}
		return listen(spec)
	},
}

func listen(spec string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key, err := configuredKey(cfg)
	if err != nil {
		return err
	}
	rules, err := enabledRules(cfg)
	if err != nil {
		return err
	}

	tone.Play(logger, cfg.Tone.Command, cfg.Tone.Args...)

	// a live stream has no end-of-file, so a debounced tick after the
	// silence threshold forces the in-flight window closed
	flush := make(chan struct{}, 1)
	d := debounce.New(cfg.SilenceThreshold())
	notify := func() {
		d(func() {
			select {
			case flush <- struct{}{}:
			default:
			}
		})
	}

	defer gomidi.CloseDriver()
	src, err := midi.OpenPort(spec, notify)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, key, rules, os.Stdout, logger)
	if err := p.Reporter().Header("live input", key.String()); err != nil {
		return err
	}
	return p.Run(ctx, src, flush)
}
