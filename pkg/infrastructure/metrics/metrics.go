package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	Namespace = "lineplan"

	// Outcome label values
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	LineOutcomeLabels    = []string{"line", "outcome"}
	ResolverSourceLabels = []string{"resolver", "source"}
	LineLabels           = []string{"line"}
)

// Recorder owns the scheduling metrics and the registry they live in.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	proposals    *prometheus.CounterVec
	commits      *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	plannedItems *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		proposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "placements_computed_total",
				Help:      "Counter of placement proposals computed, broken out by line and outcome.",
			},
			LineOutcomeLabels,
		),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "placements_committed_total",
				Help:      "Counter of placement commits, broken out by line and outcome.",
			},
			LineOutcomeLabels,
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "resolutions_total",
				Help:      "Counter of rate and changeover resolutions, broken out by resolver and winning source.",
			},
			ResolverSourceLabels,
		),
		plannedItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "planned_items",
				Help:      "Number of planned items on each line's timeline.",
			},
			LineLabels,
		),
	}
	r.registry.MustRegister(r.proposals, r.commits, r.resolutions, r.plannedItems)
	return r
}

// Registry returns the registry holding the scheduling metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordProposal counts a computed placement
func (r *Recorder) RecordProposal(line string, err error) {
	if r == nil {
		return
	}
	r.proposals.WithLabelValues(line, outcome(err)).Inc()
}

// RecordCommit counts a commit attempt
func (r *Recorder) RecordCommit(line string, err error) {
	if r == nil {
		return
	}
	r.commits.WithLabelValues(line, outcome(err)).Inc()
}

// RecordResolution counts which tier answered a lookup
func (r *Recorder) RecordResolution(resolver, source string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(resolver, source).Inc()
}

// SetPlannedItems sets the planned item gauge for a line
func (r *Recorder) SetPlannedItems(line string, n int) {
	if r == nil {
		return
	}
	r.plannedItems.WithLabelValues(line).Set(float64(n))
}

// WriteText writes every metric family in the text exposition format
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
