// Package conllu reads and writes dependency graphs in the CoNLL-U format.
//
// Basic dependencies (HEAD, DEPREL) become edges; HEAD 0 marks a root.
// Multi-word token ranges (1-2) set the MWT flags of the words they cover.
// Empty nodes (3.1) become copies of the word they follow, attached through
// their DEPS column. SpaceAfter=No in MISC leaves the word's After empty;
// otherwise After is a single space.
package conllu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/semgraft/internal/semgraph"
)

// ErrFormat is wrapped by every parse error.
var ErrFormat = errors.New("conllu: malformed input")

// Sentence is one block of the file.
type Sentence struct {
	// Comments are the comment lines without the leading "# ".
	Comments []string
	Graph    *semgraph.Graph
}

// Reader reads sentences one at a time.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{sc: sc}
}

type pendingEdge struct {
	dep  *semgraph.Word
	head string
	reln string
}

type mwtRange struct {
	from, to int
	form     string
	spaceNo  bool
}

// Next returns the next sentence, or io.EOF when the input is exhausted.
func (r *Reader) Next() (*Sentence, error) {
	var (
		s       = &Sentence{Graph: semgraph.New()}
		edges   []pendingEdge
		ranges  []mwtRange
		started bool
	)
	for r.sc.Scan() {
		r.line++
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if started {
				return s, r.finish(s, edges, ranges)
			}
			continue
		}
		started = true
		if strings.HasPrefix(line, "#") {
			s.Comments = append(s.Comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 10 {
			return nil, r.errorf("expected 10 tab-separated columns, got %d", len(cols))
		}
		id := cols[0]
		switch {
		case strings.Contains(id, "-"):
			from, to, ok := parseRange(id)
			if !ok {
				return nil, r.errorf("bad token range %q", id)
			}
			ranges = append(ranges, mwtRange{from: from, to: to, form: cols[1], spaceNo: spaceAfterNo(cols[9])})
		case strings.Contains(id, "."):
			main, sub, _ := strings.Cut(id, ".")
			idx, err1 := strconv.Atoi(main)
			cc, err2 := strconv.Atoi(sub)
			if err1 != nil || err2 != nil || cc < 1 {
				return nil, r.errorf("bad empty node id %q", id)
			}
			w := wordFromColumns(idx, cols)
			w.CopyCount = cc
			if err := s.Graph.AddWord(w); err != nil {
				return nil, r.errorf("%v", err)
			}
			for _, d := range splitDeps(cols[8]) {
				edges = append(edges, pendingEdge{dep: w, head: d[0], reln: d[1]})
			}
		default:
			idx, err := strconv.Atoi(id)
			if err != nil || idx < 1 {
				return nil, r.errorf("bad word id %q", id)
			}
			w := wordFromColumns(idx, cols)
			if err := s.Graph.AddWord(w); err != nil {
				return nil, r.errorf("%v", err)
			}
			if cols[6] != "_" {
				edges = append(edges, pendingEdge{dep: w, head: cols[6], reln: blank(cols[7])})
			}
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	if !started {
		return nil, io.EOF
	}
	return s, r.finish(s, edges, ranges)
}

func (r *Reader) finish(s *Sentence, edges []pendingEdge, ranges []mwtRange) error {
	g := s.Graph
	var roots []*semgraph.Word
	for _, e := range edges {
		if e.head == "0" {
			roots = append(roots, e.dep)
			continue
		}
		gov := lookupID(g, e.head)
		if gov == nil {
			return r.errorf("head %q of %v is not in the sentence", e.head, e.dep)
		}
		if _, err := g.AddEdge(gov, e.dep, e.reln, semgraph.DefaultWeight, false); err != nil {
			return r.errorf("%v", err)
		}
	}
	if len(roots) > 0 {
		if err := g.SetRoots(roots...); err != nil {
			return r.errorf("%v", err)
		}
	} else {
		g.RepairRoots()
	}
	for _, rg := range ranges {
		for i := rg.from; i <= rg.to; i++ {
			w := g.WordByIndex(i)
			if w == nil {
				return r.errorf("token range %d-%d covers missing word %d", rg.from, rg.to, i)
			}
			w.IsMWT, w.IsFirstMWT, w.MWTText = true, i == rg.from, rg.form
			if i == rg.to && rg.spaceNo {
				w.After = ""
			}
		}
	}
	return nil
}

func (r *Reader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, r.line, fmt.Sprintf(format, args...))
}

func wordFromColumns(idx int, cols []string) *semgraph.Word {
	w := semgraph.NewWord(idx, cols[1])
	w.Lemma = blank(cols[2])
	w.CPos = blank(cols[3])
	w.Tag = blank(cols[4])
	w.Features = semgraph.ParseFeatures(cols[5])
	w.After = " "
	for _, kv := range strings.Split(cols[9], "|") {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "SpaceAfter":
			if v == "No" {
				w.After = ""
			}
		case "NER":
			w.NER = v
		}
	}
	return w
}

func lookupID(g *semgraph.Graph, id string) *semgraph.Word {
	main, sub, isCopy := strings.Cut(id, ".")
	idx, err := strconv.Atoi(main)
	if err != nil {
		return nil
	}
	k := semgraph.Key{Index: idx}
	if isCopy {
		if k.CopyCount, err = strconv.Atoi(sub); err != nil {
			return nil
		}
	}
	return g.Lookup(k)
}

func parseRange(id string) (int, int, bool) {
	a, b, _ := strings.Cut(id, "-")
	from, err1 := strconv.Atoi(a)
	to, err2 := strconv.Atoi(b)
	return from, to, err1 == nil && err2 == nil && from >= 1 && to > from
}

func splitDeps(col string) [][2]string {
	if col == "_" || col == "" {
		return nil
	}
	var out [][2]string
	for _, d := range strings.Split(col, "|") {
		head, reln, ok := strings.Cut(d, ":")
		if ok {
			out = append(out, [2]string{head, reln})
		}
	}
	return out
}

func spaceAfterNo(misc string) bool {
	for _, kv := range strings.Split(misc, "|") {
		if kv == "SpaceAfter=No" {
			return true
		}
	}
	return false
}

func blank(s string) string {
	if s == "_" {
		return ""
	}
	return s
}
