package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/config"
	"github.com/jsphweid/cadence/rule"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgPath string
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "MIDI chord-progression validator",
	Long: `cadence listens to a MIDI stream (a file or a live input port), groups
overlapping notes into chords, names them, and validates the progression
against a configurable set of harmonic rules.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func enabledRules(cfg *config.Config) ([]rule.Rule, error) {
	reg, err := rule.DefaultRegistry(cfg.TransitionPairs())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	rules, err := reg.Enable(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return rules, nil
}

func configuredKey(cfg *config.Config) (chord.Key, error) {
	k, err := chord.ParseKey(cfg.Key)
	if err != nil {
		return chord.Key{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return k, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
