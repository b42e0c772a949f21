// Package report streams verdicts to a line-oriented text sink.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jsphweid/cadence/chord"
	"github.com/jsphweid/cadence/model"
)

// ErrSinkClosed marks a write failure on the output stream. Fatal: the
// pipeline halts.
var ErrSinkClosed = errors.New("output sink closed")

// Reporter writes one line per verdict as it is produced. Pure sink, no
// transformation beyond formatting.
type Reporter struct {
	w     io.Writer
	runID string
	spell bool
	pass  int
	fail  int
}

func NewReporter(w io.Writer, spell bool) *Reporter {
	return &Reporter{w: w, runID: uuid.New().String(), spell: spell}
}

func (r *Reporter) RunID() string {
	return r.runID
}

// Header announces the run before the first verdict.
func (r *Reporter) Header(source, key string) error {
	return r.write("run %v: validating %v in %v\n", r.runID, source, key)
}

// Report writes a single verdict line:
//
//	[<index>] <PASS|FAIL> <identity-or-"unidentified"> <violated-rule-list>
func (r *Reporter) Report(v model.Verdict) error {
	status := "PASS"
	if v.Passed {
		r.pass++
	} else {
		status = "FAIL"
		r.fail++
	}

	identity := "unidentified"
	if v.Identity != nil {
		identity = v.Identity.String()
	}

	line := fmt.Sprintf("[%d] %s %s", v.ChordIndex, status, identity)
	if len(v.ViolatedRules) > 0 {
		line += " " + strings.Join(v.ViolatedRules, ",")
	}
	if r.spell {
		line += "  (" + chord.Spell(v.Notes) + ")"
	}
	return r.write("%s\n", line)
}

// Summary writes the run totals after the stream is exhausted.
func (r *Reporter) Summary() error {
	return r.write("%d chords, %d passed, %d failed\n", r.pass+r.fail, r.pass, r.fail)
}

// Failed reports whether any verdict so far failed.
func (r *Reporter) Failed() bool {
	return r.fail > 0
}

func (r *Reporter) write(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkClosed, err)
	}
	return nil
}
