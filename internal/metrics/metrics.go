// Package metrics exposes Prometheus collectors for rewrite activity.
//
// A Metrics value implements the rewrite package's Observer interface, so it
// can be attached to every compiled pattern. All operations are safe for
// concurrent use.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "semgraft"

// Metrics holds the collectors.
type Metrics struct {
	// PatternsFired counts scripts started on a match. Labels: pattern.
	PatternsFired *prometheus.CounterVec
	// EditsApplied counts edit applications. Labels: edit, changed.
	EditsApplied *prometheus.CounterVec
	// Sentences counts processed sentences. Labels: status (changed,
	// unchanged, error).
	Sentences *prometheus.CounterVec
	// Results counts graphs written out.
	Results prometheus.Counter
	// SentenceSeconds observes the time spent rewriting one sentence.
	SentenceSeconds prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PatternsFired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewrite",
			Name:      "patterns_fired_total",
			Help:      "Edit scripts started on an acceptable match, by pattern.",
		}, []string{"pattern"}),
		EditsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewrite",
			Name:      "edits_applied_total",
			Help:      "Edits applied, by edit label and whether the graph changed.",
		}, []string{"edit", "changed"}),
		Sentences: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_total",
			Help:      "Sentences processed, by status.",
		}, []string{"status"}),
		Results: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Rewritten graphs written to the output.",
		}),
		SentenceSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sentence_duration_seconds",
			Help:      "Time spent rewriting one sentence.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

func (m *Metrics) PatternFired(uid string) {
	m.PatternsFired.WithLabelValues(uid).Inc()
}

func (m *Metrics) EditApplied(_, label string, changed bool) {
	m.EditsApplied.WithLabelValues(label, strconv.FormatBool(changed)).Inc()
}
