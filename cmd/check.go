package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/config"
	"github.com/jsphweid/cadence/db"
	"github.com/jsphweid/cadence/midi"
	"github.com/jsphweid/cadence/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <midi-file>",
	Short: "Validates the chord progression of a MIDI file",
	Long:  `Validates the chord progression of a standard MIDI file and prints one verdict per chord.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return check(args[0])
	},
}

func check(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key, err := startingKey(cfg, path)
	if err != nil {
		return err
	}
	rules, err := enabledRules(cfg)
	if err != nil {
		return err
	}

	src, err := midi.NewFileSource(path)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, key, rules, os.Stdout, logger)
	if err := p.Reporter().Header(path, key.String()); err != nil {
		return err
	}
	if err := p.Run(ctx, src, nil); err != nil {
		return err
	}
	if p.Reporter().Failed() {
		logger.Warn("progression has failing chords",
			zap.String("file", path), zap.String("run", p.Reporter().RunID()))
	}
	return nil
}

// startingKey prefers a key hint from the metadata table over the
// configured key; lookup failures fall back silently to config.
func startingKey(cfg *config.Config, path string) (chord.Key, error) {
	if cfg.Metadata.Enabled {
		name := filepath.Base(path)
		metadatas, err := db.GetPieceMetadatas(cfg.Metadata.Endpoint, cfg.Metadata.Table, []string{name})
		if err != nil {
			logger.Warn("metadata lookup failed", zap.String("piece", name), zap.Error(err))
		} else if m, ok := metadatas[name]; ok && m.Key != "" {
			if k, err := chord.ParseKey(m.Key); err == nil {
				logger.Info("using key hint from metadata",
					zap.String("piece", name), zap.String("key", k.String()))
				return k, nil
			}
			logger.Warn("ignoring unparseable key hint", zap.String("hint", m.Key))
		}
	}
	return configuredKey(cfg)
}
