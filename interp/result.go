package interp

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ecolang-io/ecolang/eco"
	"github.com/ecolang-io/ecolang/errz"
)

// Result is the complete outcome of a run. A failed run still carries
// the output and warnings produced before the failure; its Eco report is
// nil because partial runs have no meaningful estimate.
type Result struct {
	Output   []string
	Warnings []string
	Eco      *eco.Report
	Err      *errz.Error
	Duration time.Duration
}

// OutputText joins the output lines. A successful run with output ends
// with a trailing newline; a failed run's partial output does not.
func (r *Result) OutputText() string {
	joined := strings.Join(r.Output, "\n")
	if r.Err == nil && len(r.Output) > 0 {
		joined += "\n"
	}
	return joined
}

type wireResult struct {
	Output     string      `json:"output"`
	Warnings   []string    `json:"warnings"`
	Eco        *eco.Report `json:"eco"`
	Errors     *errz.Error `json:"errors"`
	DurationMS int64       `json:"duration_ms"`
}

// MarshalJSON renders the result in its wire shape: output joined into
// one string, warnings always an array, absent sections null.
func (r *Result) MarshalJSON() ([]byte, error) {
	w := wireResult{
		Output:     r.OutputText(),
		Warnings:   r.Warnings,
		Eco:        r.Eco,
		Errors:     r.Err,
		DurationMS: r.Duration.Milliseconds(),
	}
	if w.Warnings == nil {
		w.Warnings = []string{}
	}
	return json.Marshal(w)
}
