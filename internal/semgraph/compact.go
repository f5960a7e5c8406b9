package semgraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax is wrapped by every error Parse returns.
var ErrSyntax = errors.New("compact graph syntax error")

// Parse reads a graph in compact bracket notation:
//
//	[has-2 nsubj> Jennifer/NNP-1 obj> [antennae-3 dep> blue-4]]
//
// A token is word[/tag][-index], where index may carry a copy count as in
// "4.1". Reusing an index refers to the same word. Words without an index get
// the smallest unused positive indices in order of appearance. Every
// top-level item becomes a root.
func Parse(s string) (*Graph, error) {
	p := &parser{toks: tokenize(s), byKey: make(map[Key]*Word)}
	var roots []*Word
	for !p.done() {
		w, err := p.item()
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %q", ErrSyntax, err, s)
		}
		roots = append(roots, w)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: empty graph %q", ErrSyntax, s)
	}
	p.assignIndices()

	g := New()
	for _, w := range p.order {
		if err := g.AddWord(w); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSyntax, err)
		}
	}
	for _, e := range p.edges {
		if _, err := g.AddEdge(e.gov, e.dep, e.reln, DefaultWeight, false); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSyntax, err)
		}
	}
	if err := g.SetRoots(roots...); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, err)
	}
	return g, nil
}

// MustParse is Parse that panics on error. Intended for tests and fixtures.
func MustParse(s string) *Graph {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

type pendingEdge struct {
	gov, dep *Word
	reln     string
}

type parser struct {
	toks  []string
	pos   int
	byKey map[Key]*Word
	order []*Word
	auto  []*Word
	edges []pendingEdge
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) next() (string, error) {
	if p.done() {
		return "", errors.New("unexpected end of input")
	}
	t := p.toks[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) item() (*Word, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t == "]" {
		return nil, errors.New("unbalanced ']'")
	}
	if t != "[" {
		return p.word(t)
	}
	t, err = p.next()
	if err != nil {
		return nil, err
	}
	gov, err := p.word(t)
	if err != nil {
		return nil, err
	}
	for {
		t, err = p.next()
		if err != nil {
			return nil, err
		}
		if t == "]" {
			return gov, nil
		}
		if len(t) < 2 || !strings.HasSuffix(t, ">") {
			return nil, fmt.Errorf("expected relation before %q", t)
		}
		dep, err := p.item()
		if err != nil {
			return nil, err
		}
		p.edges = append(p.edges, pendingEdge{gov: gov, dep: dep, reln: strings.TrimSuffix(t, ">")})
	}
}

func (p *parser) word(t string) (*Word, error) {
	if t == "[" || (len(t) > 1 && strings.HasSuffix(t, ">")) {
		return nil, fmt.Errorf("expected word, got %q", t)
	}
	text, index, copyCount, explicit := splitIndex(t)
	w := &Word{Index: index, CopyCount: copyCount}
	if i := strings.LastIndex(text, "/"); i > 0 && i < len(text)-1 {
		w.Tag = text[i+1:]
		text = text[:i]
	}
	w.Text, w.Value = text, text
	if explicit {
		if existing, ok := p.byKey[w.Key()]; ok {
			return existing, nil
		}
		p.byKey[w.Key()] = w
	} else {
		p.auto = append(p.auto, w)
	}
	p.order = append(p.order, w)
	return w, nil
}

func (p *parser) assignIndices() {
	next := 1
	for _, w := range p.auto {
		for {
			if _, taken := p.byKey[Key{Index: next}]; !taken {
				break
			}
			next++
		}
		w.Index = next
		p.byKey[w.Key()] = w
		next++
	}
}

// splitIndex separates "word-4" or "word-4.1" into its parts.
func splitIndex(t string) (text string, index, copyCount int, ok bool) {
	i := strings.LastIndex(t, "-")
	if i <= 0 || i == len(t)-1 {
		return t, 0, 0, false
	}
	idxPart := t[i+1:]
	main, copyPart, hasCopy := strings.Cut(idxPart, ".")
	n, err := strconv.Atoi(main)
	if err != nil || n < 0 || strings.HasPrefix(main, "+") {
		return t, 0, 0, false
	}
	c := 0
	if hasCopy {
		c, err = strconv.Atoi(copyPart)
		if err != nil || c < 0 {
			return t, 0, 0, false
		}
	}
	return t[:i], n, c, true
}

func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		t := cur.String()
		cur.Reset()
		// "dep>baz-4" is a relation glued to its dependent.
		if i := strings.Index(t, ">"); i > 0 && i < len(t)-1 {
			toks = append(toks, t[:i+1], t[i+1:])
			return
		}
		toks = append(toks, t)
	}
	for _, r := range s {
		switch {
		case r == '[' || r == ']':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// String renders the graph in the notation Parse reads, starting from the
// roots. Dependents are listed in word order.
func (g *Graph) String() string {
	var sb strings.Builder
	visited := make(map[*Word]bool)
	for i, r := range g.Roots() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		g.writeCompact(&sb, r, visited)
	}
	return sb.String()
}

func (g *Graph) writeCompact(sb *strings.Builder, w *Word, visited map[*Word]bool) {
	out := g.OutgoingEdges(w)
	if visited[w] || len(out) == 0 {
		sb.WriteString(compactToken(w))
		return
	}
	visited[w] = true
	sb.WriteByte('[')
	sb.WriteString(compactToken(w))
	for _, e := range out {
		sb.WriteByte(' ')
		sb.WriteString(e.Reln)
		sb.WriteString("> ")
		g.writeCompact(sb, e.Dep, visited)
	}
	sb.WriteByte(']')
}

func compactToken(w *Word) string {
	t := w.Text
	if w.Tag != "" {
		t += "/" + w.Tag
	}
	return t + "-" + w.Key().String()
}
