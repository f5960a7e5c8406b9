package rewrite

import (
	"context"
	"log/slog"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/ctxlog"
	"github.com/vk/semgraft/internal/edit"
	"github.com/vk/semgraft/internal/match"
	"github.com/vk/semgraft/internal/predicate"
	"github.com/vk/semgraft/internal/semgraph"
)

// Observer is told about rewrite activity. Implementations must be safe for
// concurrent use when patterns run on several graphs at once.
type Observer interface {
	PatternFired(uid string)
	EditApplied(uid, label string, changed bool)
}

// Pattern ties a matcher to an edit script.
type Pattern struct {
	UID       string
	Notes     string
	Language  string
	Match     match.Pattern
	Predicate predicate.Predicate
	Edits     []edit.Edit
	Observer  Observer
}

func (p *Pattern) accepts(b *binding.Bindings) bool {
	if b == nil || b.Ambiguous() {
		return false
	}
	return p.Predicate == nil || p.Predicate.Test(b)
}

// run applies the whole script and reports whether any edit changed g.
func (p *Pattern) run(ctx context.Context, g *semgraph.Graph, b *binding.Bindings) bool {
	logger := ctxlog.FromContext(ctx)
	if p.Observer != nil {
		p.Observer.PatternFired(p.UID)
	}
	changed := false
	for _, e := range p.Edits {
		c := e.Apply(g, b)
		logger.Debug("edit applied", "pattern", p.UID, "edit", e.EditString(), "changed", c)
		if p.Observer != nil {
			p.Observer.EditApplied(p.UID, e.Label(), c)
		}
		changed = changed || c
	}
	return changed
}

// Execute runs the script once for every acceptable match of p on g. Each run
// works on its own clone, so g is never modified. Structurally identical
// results are reported once, in first-seen order.
func (p *Pattern) Execute(ctx context.Context, g *semgraph.Graph) []*semgraph.Graph {
	logger := ctxlog.FromContext(ctx)
	var out []*semgraph.Graph
	m := p.Match.Matcher(g)
	for m.Next() {
		b := m.Bindings()
		if !p.accepts(b) {
			continue
		}
		target := g.Clone()
		p.run(ctx, target, b.Rebase(target))
		out = append(out, target)
	}
	out = Dedupe(out)
	if len(out) > 0 {
		logger.Debug("pattern executed", "pattern", p.UID, "results", len(out))
	}
	return out
}

// Iterate rewrites a clone of g until no acceptable match changes it any more
// and reports whether anything changed at all.
func (p *Pattern) Iterate(ctx context.Context, g *semgraph.Graph) (*semgraph.Graph, bool) {
	logger := ctxlog.FromContext(ctx)
	current := g.Clone()
	changedAny := false
	for pass := 1; ; pass++ {
		changed := false
		m := p.Match.Matcher(current)
		for m.Next() {
			b := m.Bindings()
			if !p.accepts(b) {
				continue
			}
			if p.run(ctx, current, b) {
				changed = true
				break
			}
		}
		if !changed {
			return current, changedAny
		}
		changedAny = true
		logger.Debug("graph changed, matching again", "pattern", p.UID, "pass", pass)
	}
}

// Expand concatenates the results of executing each pattern on g.
func Expand(ctx context.Context, patterns []*Pattern, g *semgraph.Graph) []*semgraph.Graph {
	var out []*semgraph.Graph
	for _, p := range patterns {
		out = append(out, p.Execute(ctx, g)...)
	}
	return out
}

// ExhaustDepth bounds how many times Exhaust feeds results back in.
const ExhaustDepth = 3

// Exhaust expands g with every pattern, then expands each result again, down
// to ExhaustDepth levels. The collected results are de-duplicated and graphs
// identical to g are dropped.
func Exhaust(ctx context.Context, patterns []*Pattern, g *semgraph.Graph) []*semgraph.Graph {
	all := exhaust(ctx, patterns, g, 1)
	source := g.Fingerprint()
	var out []*semgraph.Graph
	for _, r := range Dedupe(all) {
		if r.Fingerprint() != source {
			out = append(out, r)
		}
	}
	ctxlog.FromContext(ctx).Debug("exhausted", slog.Int("generated", len(all)), slog.Int("distinct", len(out)))
	return out
}

func exhaust(ctx context.Context, patterns []*Pattern, g *semgraph.Graph, depth int) []*semgraph.Graph {
	level := Expand(ctx, patterns, g)
	out := append([]*semgraph.Graph(nil), level...)
	if depth < ExhaustDepth {
		for _, child := range level {
			out = append(out, exhaust(ctx, patterns, child, depth+1)...)
		}
	}
	return out
}

// Dedupe drops graphs structurally identical to an earlier one.
func Dedupe(gs []*semgraph.Graph) []*semgraph.Graph {
	seen := make(map[string]bool, len(gs))
	var out []*semgraph.Graph
	for _, g := range gs {
		fp := g.Fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, g)
	}
	return out
}
