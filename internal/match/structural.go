package match

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

// NodeSpec constrains one named word. Attribute values are exact strings or
// /regex/ patterns that must match the whole attribute.
type NodeSpec struct {
	Name  string
	Attrs map[string]string
	Root  bool
}

// EdgeSpec requires an edge between two declared nodes. Either endpoint may be
// left empty to mean any word. An empty Reln matches any relation. A negated
// edge requires that no such edge exists. A named edge is bound in the match,
// and every edge that satisfies it yields its own match.
type EdgeSpec struct {
	Name    string
	Gov     string
	Dep     string
	Reln    string
	Negated bool
}

// Spec is the declarative form of a structural pattern.
type Spec struct {
	Nodes []NodeSpec
	Edges []EdgeSpec
	// Adjacent lists pairs {a, b} where b must directly follow a.
	Adjacent [][2]string
}

type value struct {
	raw string
	re  *regexp.Regexp
}

func compileValue(s string) (value, error) {
	if len(s) >= 2 && s[0] == '/' && s[len(s)-1] == '/' {
		re, err := regexp.Compile("^(?:" + s[1:len(s)-1] + ")$")
		if err != nil {
			return value{}, err
		}
		return value{raw: s, re: re}, nil
	}
	return value{raw: s}, nil
}

func (v value) matches(s string) bool {
	if v.re != nil {
		return v.re.MatchString(s)
	}
	return v.raw == s
}

type attrTest struct {
	name string
	want value
}

type node struct {
	name  string
	attrs []attrTest
	root  bool
}

type edgeRule struct {
	name     string
	gov, dep int
	reln     value
	anyReln  bool
	negated  bool
}

// Structural matches a fixed set of named words linked by edge and adjacency
// constraints. Matches are enumerated in word order of the first declared
// node, then the second, and so on; named edge alternatives vary last.
type Structural struct {
	nodes    []node
	edges    []edgeRule
	named    []int
	adjacent [][2]int
}

// NewStructural compiles spec.
func NewStructural(spec Spec) (*Structural, error) {
	if len(spec.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes declared", ErrInvalidPattern)
	}
	s := &Structural{}
	pos := make(map[string]int, len(spec.Nodes))
	for _, ns := range spec.Nodes {
		if ns.Name == "" {
			return nil, fmt.Errorf("%w: node without a name", ErrInvalidPattern)
		}
		if _, dup := pos[ns.Name]; dup {
			return nil, fmt.Errorf("%w: node %q declared twice", ErrInvalidPattern, ns.Name)
		}
		n := node{name: ns.Name, root: ns.Root}
		for _, attr := range slices.Sorted(maps.Keys(ns.Attrs)) {
			canon, err := semgraph.CanonicalAttr(attr)
			if err != nil {
				return nil, fmt.Errorf("%w: node %q: %v", ErrInvalidPattern, ns.Name, err)
			}
			v, err := compileValue(ns.Attrs[attr])
			if err != nil {
				return nil, fmt.Errorf("%w: node %q attribute %s: %v", ErrInvalidPattern, ns.Name, attr, err)
			}
			n.attrs = append(n.attrs, attrTest{name: canon, want: v})
		}
		pos[ns.Name] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}

	endpoint := func(name string) (int, error) {
		if name == "" {
			return -1, nil
		}
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w: edge endpoint %q is not a declared node", ErrInvalidPattern, name)
		}
		return i, nil
	}
	edgeNames := make(map[string]bool)
	for _, es := range spec.Edges {
		gov, err := endpoint(es.Gov)
		if err != nil {
			return nil, err
		}
		dep, err := endpoint(es.Dep)
		if err != nil {
			return nil, err
		}
		if gov < 0 && dep < 0 {
			return nil, fmt.Errorf("%w: edge %q needs a gov or a dep", ErrInvalidPattern, es.Name)
		}
		r := edgeRule{name: es.Name, gov: gov, dep: dep, negated: es.Negated, anyReln: es.Reln == ""}
		if r.reln, err = compileValue(es.Reln); err != nil {
			return nil, fmt.Errorf("%w: edge reln %q: %v", ErrInvalidPattern, es.Reln, err)
		}
		if es.Name != "" {
			if es.Negated {
				return nil, fmt.Errorf("%w: negated edge %q cannot be named", ErrInvalidPattern, es.Name)
			}
			if edgeNames[es.Name] {
				return nil, fmt.Errorf("%w: edge %q declared twice", ErrInvalidPattern, es.Name)
			}
			edgeNames[es.Name] = true
			s.named = append(s.named, len(s.edges))
		}
		s.edges = append(s.edges, r)
	}

	for _, pair := range spec.Adjacent {
		a, ok := pos[pair[0]]
		b, ok2 := pos[pair[1]]
		if !ok || !ok2 {
			return nil, fmt.Errorf("%w: adjacent pair %v names an undeclared node", ErrInvalidPattern, pair)
		}
		s.adjacent = append(s.adjacent, [2]int{a, b})
	}
	return s, nil
}

// Matcher finds every match of s on g up front; g must not change while the
// matcher is in use.
func (s *Structural) Matcher(g *semgraph.Graph) Matcher {
	return &structuralMatcher{s: s, found: s.find(g)}
}

type assignment struct {
	words []*semgraph.Word
	edges []*semgraph.Edge
}

func (s *Structural) find(g *semgraph.Graph) []assignment {
	all := g.Words()
	roots := make(map[*semgraph.Word]bool)
	for _, r := range g.Roots() {
		roots[r] = true
	}
	candidates := make([][]*semgraph.Word, len(s.nodes))
	for i, n := range s.nodes {
		for _, w := range all {
			if n.accepts(w, roots) {
				candidates[i] = append(candidates[i], w)
			}
		}
		if len(candidates[i]) == 0 {
			return nil
		}
	}

	var out []assignment
	assign := make([]*semgraph.Word, len(s.nodes))
	var walk func(i int)
	walk = func(i int) {
		if i == len(s.nodes) {
			out = s.expandEdges(g, assign, out)
			return
		}
		for _, w := range candidates[i] {
			assign[i] = w
			if s.consistent(g, assign, i) {
				walk(i + 1)
			}
		}
		assign[i] = nil
	}
	walk(0)
	return out
}

func (n node) accepts(w *semgraph.Word, roots map[*semgraph.Word]bool) bool {
	if n.root && !roots[w] {
		return false
	}
	for _, t := range n.attrs {
		got, err := w.Attr(t.name)
		if err != nil || !t.want.matches(got) {
			return false
		}
	}
	return true
}

// consistent checks every constraint that became decidable once node i was
// assigned.
func (s *Structural) consistent(g *semgraph.Graph, assign []*semgraph.Word, i int) bool {
	for _, p := range s.adjacent {
		if max(p[0], p[1]) != i {
			continue
		}
		a, b := assign[p[0]], assign[p[1]]
		if a.SentIndex != b.SentIndex || b.Index != a.Index+1 {
			return false
		}
	}
	for _, r := range s.edges {
		if max(r.gov, r.dep) != i {
			continue
		}
		found := len(r.candidates(g, assign)) > 0
		if found == r.negated {
			return false
		}
	}
	return true
}

func (r edgeRule) candidates(g *semgraph.Graph, assign []*semgraph.Word) []*semgraph.Edge {
	var pool []*semgraph.Edge
	if r.gov >= 0 {
		pool = g.OutgoingEdges(assign[r.gov])
	} else {
		pool = g.IncomingEdges(assign[r.dep])
	}
	var out []*semgraph.Edge
	for _, e := range pool {
		if r.dep >= 0 && e.Dep != assign[r.dep] {
			continue
		}
		if !r.anyReln && !r.reln.matches(e.Reln) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// expandEdges appends one assignment per combination of named edge choices.
func (s *Structural) expandEdges(g *semgraph.Graph, assign []*semgraph.Word, out []assignment) []assignment {
	choices := make([][]*semgraph.Edge, len(s.named))
	for j, idx := range s.named {
		choices[j] = s.edges[idx].candidates(g, assign)
	}
	picked := make([]*semgraph.Edge, len(s.named))
	var walk func(j int)
	walk = func(j int) {
		if j == len(s.named) {
			out = append(out, assignment{
				words: append([]*semgraph.Word(nil), assign...),
				edges: append([]*semgraph.Edge(nil), picked...),
			})
			return
		}
		for _, e := range choices[j] {
			picked[j] = e
			walk(j + 1)
		}
	}
	walk(0)
	return out
}

type structuralMatcher struct {
	s     *Structural
	found []assignment
	pos   int
}

func (m *structuralMatcher) Next() bool {
	if m.pos >= len(m.found) {
		return false
	}
	m.pos++
	return true
}

func (m *structuralMatcher) Bindings() *binding.Bindings {
	if m.pos == 0 {
		return nil
	}
	a := m.found[m.pos-1]
	b := binding.New()
	for i, n := range m.s.nodes {
		b.BindWord(n.name, a.words[i])
	}
	for j, idx := range m.s.named {
		b.BindEdge(m.s.edges[idx].name, a.edges[j])
	}
	return b
}
