package edit

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/reindex"
	"github.com/vk/semgraft/internal/semgraph"
)

// SplitWord breaks one word into several consecutive words. The piece at
// HeadIndex keeps the original word's edges; the others become Reln
// dependents of it. Pieces are either exact strings or regular expressions
// whose capture groups, concatenated, give the piece text. The pieces are
// marked as one multi-word token carrying the original text.
type SplitWord struct {
	Node      string
	Pieces    []string
	Exact     bool
	HeadIndex int
	Reln      string
	// Names binds piece positions to new names.
	Names map[int]string

	patterns []*regexp.Regexp
}

// NewSplitWord validates and returns a SplitWord edit.
func NewSplitWord(node string, pieces []string, exact bool, headIndex int, reln string, names map[int]string) (*SplitWord, error) {
	if node == "" {
		return nil, invalid(LabelSplitWord, "-node is required")
	}
	if len(pieces) < 2 {
		return nil, invalid(LabelSplitWord, "at least two -regex or -exact pieces are required")
	}
	if headIndex < 0 || headIndex >= len(pieces) {
		return nil, invalid(LabelSplitWord, "-headIndex %d out of range for %d pieces", headIndex, len(pieces))
	}
	if reln == "" {
		return nil, invalid(LabelSplitWord, "-reln is required")
	}
	for k := range names {
		if k < 0 || k >= len(pieces) {
			return nil, invalid(LabelSplitWord, "-name index %d out of range for %d pieces", k, len(pieces))
		}
	}
	e := &SplitWord{Node: node, Pieces: slices.Clone(pieces), Exact: exact, HeadIndex: headIndex, Reln: reln, Names: maps.Clone(names)}
	if !exact {
		for _, p := range pieces {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, invalid(LabelSplitWord, "-regex %q: %v", p, err)
			}
			e.patterns = append(e.patterns, re)
		}
	}
	return e, nil
}

func (e *SplitWord) Label() string { return LabelSplitWord }

func (e *SplitWord) pieceTexts(text string) ([]string, bool) {
	if e.Exact {
		return e.Pieces, true
	}
	out := make([]string, 0, len(e.patterns))
	for _, re := range e.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil, false
		}
		if len(m) == 1 {
			out = append(out, m[0])
			continue
		}
		out = append(out, strings.Join(m[1:], ""))
	}
	return out, true
}

func (e *SplitWord) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w, ok := word(g, b, e.Node)
	if !ok {
		return false
	}
	texts, ok := e.pieceTexts(w.Text)
	if !ok {
		return false
	}
	n := len(texts)
	base := w.Index
	original, before, after := w.Text, w.Before, w.After

	reindex.MoveNodes(g, b,
		func(i int) bool { return i > base },
		func(i int) int { return i + n - 1 },
		true)
	// Copies of the split word follow its last piece.
	for _, c := range g.Words() {
		if c != w && c.Index == base && c.CopyCount > 0 {
			reindex.MoveNode(g, b, c, base+n-1)
		}
	}
	head, _ := reindex.MoveNode(g, b, w, base+e.HeadIndex)

	pieces := make([]*semgraph.Word, n)
	for j, text := range texts {
		var p *semgraph.Word
		if j == e.HeadIndex {
			p = head
			p.Lemma = ""
			p.Before, p.After = "", ""
		} else {
			p = newWordLike(g, base+j, "")
			mustAddWord(g, p)
		}
		p.Text, p.Value = text, text
		p.IsMWT, p.IsFirstMWT, p.MWTText = true, j == 0, original
		pieces[j] = p
	}
	pieces[0].Before = before
	pieces[n-1].After = after

	for j, p := range pieces {
		if j != e.HeadIndex {
			mustAddEdge(g, head, p, e.Reln, semgraph.DefaultWeight, false)
		}
	}
	for j, name := range e.Names {
		b.BindWord(name, pieces[j])
	}
	return true
}

func (e *SplitWord) EditString() string {
	lw := newLine(LabelSplitWord).flag("node", e.Node)
	kind := "regex"
	if e.Exact {
		kind = "exact"
	}
	for _, p := range e.Pieces {
		lw.flag(kind, p)
	}
	lw.flag("headIndex", strconv.Itoa(e.HeadIndex)).flag("reln", e.Reln)
	for _, k := range slices.Sorted(maps.Keys(e.Names)) {
		lw.flag("name", strconv.Itoa(k)+"="+e.Names[k])
	}
	return lw.String()
}

// CombineMWT marks adjacent words as the pieces of one multi-word token.
// Graph structure is not touched.
type CombineMWT struct {
	Names []string
	// Word is the token text; empty means the concatenated pieces.
	Word string
}

// NewCombineMWT validates and returns a CombineMWT edit.
func NewCombineMWT(names []string, text string) (*CombineMWT, error) {
	if len(names) < 2 {
		return nil, invalid(LabelCombineMWT, "at least two -node names are required")
	}
	if hasDuplicate(names) {
		return nil, invalid(LabelCombineMWT, "duplicate -node in %v", names)
	}
	return &CombineMWT{Names: slices.Clone(names), Word: text}, nil
}

func (e *CombineMWT) Label() string { return LabelCombineMWT }

func (e *CombineMWT) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	ws, ok := words(g, b, e.Names)
	if !ok {
		return false
	}
	semgraph.SortWords(ws)
	if !contiguous(ws) {
		return false
	}
	text := e.Word
	if text == "" {
		var sb strings.Builder
		for _, w := range ws {
			sb.WriteString(w.Text)
		}
		text = sb.String()
	}
	changed := false
	for i, w := range ws {
		first := i == 0
		if w.IsMWT && w.IsFirstMWT == first && w.MWTText == text {
			continue
		}
		w.IsMWT, w.IsFirstMWT, w.MWTText = true, first, text
		changed = true
	}
	return changed
}

func (e *CombineMWT) EditString() string {
	lw := newLine(LabelCombineMWT)
	for _, n := range e.Names {
		lw.flag("node", n)
	}
	return lw.optFlag("word", e.Word).String()
}
