package conllu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/semgraft/internal/semgraph"
)

// Writer writes sentences separated by blank lines.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Flush writes any buffered data.
func (w *Writer) Flush() error { return w.w.Flush() }

// Write renders one sentence. Words that are neither roots nor dependents
// get "_" for HEAD and DEPREL. When a word has several governors the first
// one in word order fills HEAD and all of them are listed in DEPS.
func (w *Writer) Write(s *Sentence) error {
	for _, c := range s.Comments {
		if _, err := fmt.Fprintf(w.w, "# %s\n", c); err != nil {
			return err
		}
	}
	g := s.Graph
	ws := g.Words()
	spacing := hasSpacing(ws)
	for i, word := range ws {
		if word.IsMWT && word.IsFirstMWT && word.CopyCount == 0 {
			last := word.Index
			for _, next := range ws[i+1:] {
				if next.CopyCount > 0 {
					continue
				}
				if !next.IsMWT || next.IsFirstMWT || next.Index != last+1 {
					break
				}
				last = next.Index
			}
			if last > word.Index {
				misc := "_"
				if spacing && g.WordByIndex(last).After == "" && !isLast(ws, last) {
					misc = "SpaceAfter=No"
				}
				cols := []string{fmt.Sprintf("%d-%d", word.Index, last), word.MWTText, "_", "_", "_", "_", "_", "_", "_", misc}
				if _, err := io.WriteString(w.w, strings.Join(cols, "\t")+"\n"); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w.w, strings.Join(columns(g, word, ws, spacing), "\t")+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w.w, "\n")
	return err
}

func columns(g *semgraph.Graph, word *semgraph.Word, ws []*semgraph.Word, spacing bool) []string {
	head, deprel, deps := "_", "_", "_"
	in := g.IncomingEdges(word)
	switch {
	case word.CopyCount > 0:
		deps = depsColumn(g, word, in)
	case g.IsRoot(word):
		head, deprel = "0", "root"
		if len(in) > 0 {
			deps = depsColumn(g, word, in)
		}
	case len(in) > 0:
		head, deprel = wordID(in[0].Gov), orBlank(in[0].Reln)
		if len(in) > 1 {
			deps = depsColumn(g, word, in)
		}
	}

	var misc []string
	if spacing && word.After == "" && word.CopyCount == 0 && !word.IsMWT && !isLast(ws, word.Index) {
		misc = append(misc, "SpaceAfter=No")
	}
	if word.NER != "" {
		misc = append(misc, "NER="+word.NER)
	}
	miscCol := "_"
	if len(misc) > 0 {
		miscCol = strings.Join(misc, "|")
	}
	return []string{
		wordID(word),
		orBlank(word.Text),
		orBlank(word.Lemma),
		orBlank(word.CPos),
		orBlank(word.Tag),
		orBlank(semgraph.FormatFeatures(word.Features)),
		head,
		deprel,
		deps,
		miscCol,
	}
}

func depsColumn(g *semgraph.Graph, word *semgraph.Word, in []*semgraph.Edge) string {
	var parts []string
	if g.IsRoot(word) {
		parts = append(parts, "0:root")
	}
	for _, e := range in {
		parts = append(parts, wordID(e.Gov)+":"+e.Reln)
	}
	if len(parts) == 0 {
		return "_"
	}
	return strings.Join(parts, "|")
}

func wordID(w *semgraph.Word) string {
	if w.CopyCount > 0 {
		return strconv.Itoa(w.Index) + "." + strconv.Itoa(w.CopyCount)
	}
	return strconv.Itoa(w.Index)
}

// hasSpacing reports whether any word carries whitespace information; graphs
// built without it get no SpaceAfter marks at all.
func hasSpacing(ws []*semgraph.Word) bool {
	for _, w := range ws {
		if w.After != "" || w.Before != "" {
			return true
		}
	}
	return false
}

func isLast(ws []*semgraph.Word, index int) bool {
	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i].CopyCount == 0 {
			return ws[i].Index == index
		}
	}
	return true
}

func orBlank(s string) string {
	if s == "" {
		return "_"
	}
	return s
}
