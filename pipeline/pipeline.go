// Package pipeline wires the validation stages together: source →
// aggregator → identifier → validator → reporter.
package pipeline

import (
	"context"
	"io"
	"sort"

	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/config"
	"github.com/jsphweid/cadence/midi"
	"github.com/jsphweid/cadence/model"
	"github.com/jsphweid/cadence/report"
	"github.com/jsphweid/cadence/rule"
	"github.com/jsphweid/cadence/window"
	"go.uber.org/zap"
)

type Pipeline struct {
	agg   *window.Aggregator
	ident *chord.Identifier
	val   *rule.Validator
	rep   *report.Reporter
	log   *zap.Logger
}

func New(cfg *config.Config, key chord.Key, rules []rule.Rule, out io.Writer, log *zap.Logger) *Pipeline {
	return &Pipeline{
		agg:   window.New(cfg.SilenceThreshold(), cfg.SimultaneityEpsilon(), log),
		ident: chord.NewIdentifier(cfg.ConfidenceThreshold),
		val:   rule.NewValidator(key, rules, log),
		rep:   report.NewReporter(out, cfg.SpellNotes),
		log:   log,
	}
}

func (p *Pipeline) Reporter() *report.Reporter {
	return p.rep
}

// Run pulls the source dry. Cancellation closes the source, which ends the
// event stream at the next pull; the partial window is flushed before the
// run terminates. The flush channel, when non-nil, forces the in-flight
// window closed; the listen command drives it from a quiescence debouncer
// since a live stream has no end-of-file.
func (p *Pipeline) Run(ctx context.Context, src midi.Source, flush <-chan struct{}) error {
	events := src.Events()
	done := ctx.Done()
	for {
		select {
		case <-done:
			p.log.Debug("stop signal, closing source")
			_ = src.Close()
			done = nil
		case <-flush:
			if err := p.emit(p.agg.Flush()); err != nil {
				return err
			}
		case ev, ok := <-events:
			if !ok {
				if err := p.emit(p.agg.Flush()); err != nil {
					return err
				}
				return p.rep.Summary()
			}
			if err := p.emit(p.agg.Feed(ev)); err != nil {
				return err
			}
		}
	}
}

func (p *Pipeline) emit(chords []model.Chord) error {
	for _, c := range chords {
		c.Identity = p.ident.Identify(c, p.val.Key())
		if err := p.rep.Report(p.val.Evaluate(c)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSets validates pre-formed pitch sets, bypassing the aggregator.
// This is the path the HTTP endpoint uses.
func ValidateSets(cfg *config.Config, key chord.Key, rules []rule.Rule, sets []model.Notes, log *zap.Logger) []model.Verdict {
	ident := chord.NewIdentifier(cfg.ConfidenceThreshold)
	val := rule.NewValidator(key, rules, log)

	verdicts := make([]model.Verdict, 0, len(sets))
	for _, notes := range sets {
		sorted := make(model.Notes, len(notes))
		copy(sorted, notes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		c := model.Chord{Notes: sorted}
		if len(sorted) > 0 {
			c.Bass = sorted[0] % 12
		}
		c.Identity = ident.Identify(c, val.Key())
		verdicts = append(verdicts, val.Evaluate(c))
	}
	return verdicts
}
