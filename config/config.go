// Package config provides configuration loading for cadence runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jsphweid/cadence/constants"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure so the CLI can map it to a
// distinct exit code.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete run configuration.
type Config struct {
	// Key is the starting key signature, e.g. "C major".
	Key string `yaml:"key"`
	// Rules is the ordered set of enabled rule identifiers.
	Rules []string `yaml:"rules"`
	// ForbiddenTransitions seeds the forbidden-transition rule with
	// scale-degree pairs.
	ForbiddenTransitions []Transition `yaml:"forbidden_transitions"`
	// SilenceThresholdMs is the window-closing gap.
	SilenceThresholdMs int `yaml:"silence_threshold_ms"`
	// SimultaneityEpsilonMs bounds what counts as simultaneous note-ons.
	SimultaneityEpsilonMs int `yaml:"simultaneity_epsilon_ms"`
	// ConfidenceThreshold is the minimum chord-identification confidence.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	// SpellNotes adds solfège spellings to each verdict line.
	SpellNotes bool `yaml:"spell_notes"`

	Metadata MetadataConfig `yaml:"metadata"`
	Tone     ToneConfig     `yaml:"tone"`
}

type Transition struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// MetadataConfig configures the optional piece-metadata lookup used to
// seed the starting key.
type MetadataConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Table    string `yaml:"table"`
}

// ToneConfig names an external audio command played as a reference tone
// before a live run. Fire and forget, no return-value contract.
type ToneConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Key: constants.DefaultKey,
		Rules: []string{
			"key-membership",
			"forbidden-transition",
			"dominant-resolution",
			"no-direct-repeat",
			"modulation-pivot",
		},
		ForbiddenTransitions:  []Transition{{From: "V", To: "ii"}},
		SilenceThresholdMs:    int(constants.DefaultSilenceThreshold.Milliseconds()),
		SimultaneityEpsilonMs: int(constants.DefaultSimultaneityEpsilon.Milliseconds()),
		ConfidenceThreshold:   constants.DefaultConfidenceThreshold,
		Metadata: MetadataConfig{
			Endpoint: constants.GetMetadataEndpoint(),
			Table:    constants.MetadataTable,
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalid)
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: at least one rule must be enabled", ErrInvalid)
	}
	if c.SilenceThresholdMs <= 0 {
		return fmt.Errorf("%w: silence_threshold_ms must be positive", ErrInvalid)
	}
	if c.SimultaneityEpsilonMs < 0 || c.SimultaneityEpsilonMs >= c.SilenceThresholdMs {
		return fmt.Errorf("%w: simultaneity_epsilon_ms must be in [0, silence_threshold_ms)", ErrInvalid)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence_threshold must be between 0 and 1", ErrInvalid)
	}
	return nil
}

func (c *Config) SilenceThreshold() time.Duration {
	return time.Duration(c.SilenceThresholdMs) * time.Millisecond
}

func (c *Config) SimultaneityEpsilon() time.Duration {
	return time.Duration(c.SimultaneityEpsilonMs) * time.Millisecond
}

// TransitionPairs flattens the forbidden transitions for the rule builder.
func (c *Config) TransitionPairs() [][2]string {
	res := make([][2]string, 0, len(c.ForbiddenTransitions))
	for _, t := range c.ForbiddenTransitions {
		res = append(res, [2]string{t.From, t.To})
	}
	return res
}
