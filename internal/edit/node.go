package edit

import (
	"slices"
	"strconv"
	"strings"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/lemma"
	"github.com/vk/semgraft/internal/reindex"
	"github.com/vk/semgraft/internal/semgraph"
)

// AddNode inserts an isolated word after the last one and binds it to Name.
type AddNode struct {
	Name  string
	Attrs Attrs
}

// NewAddNode validates and returns an AddNode edit.
func NewAddNode(name string, attrs map[string]string) (*AddNode, error) {
	if name == "" {
		return nil, invalid(LabelAddNode, "-name is required")
	}
	a, err := NewAttrs(LabelAddNode, attrs)
	if err != nil {
		return nil, err
	}
	return &AddNode{Name: name, Attrs: a}, nil
}

func (e *AddNode) Label() string { return LabelAddNode }

func (e *AddNode) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w := newWordLike(g, g.MaxIndex()+1, "")
	e.Attrs.applyTo(w)
	mustAddWord(g, w)
	g.RepairRoots()
	b.BindWord(e.Name, w)
	return true
}

func (e *AddNode) EditString() string {
	return newLine(LabelAddNode).flag("name", e.Name).attrs(e.Attrs).String()
}

// AddDep creates a new word as a dependent of Gov.
//
// Position selects where the word goes: "" or "+" appends it, "-" puts it
// first, "-name" right before the named word and "+name" right after it.
// Words after the insertion point shift right by one.
type AddDep struct {
	Gov      string
	Reln     string
	Name     string
	Position string
	Attrs    Attrs
	Weight   float64
}

// NewAddDep validates and returns an AddDep edit.
func NewAddDep(gov, reln, name, position string, attrs map[string]string, weight float64) (*AddDep, error) {
	if gov == "" {
		return nil, invalid(LabelAddDep, "-gov is required")
	}
	if reln == "" {
		return nil, invalid(LabelAddDep, "-reln is required")
	}
	if position != "" && !strings.HasPrefix(position, "-") && !strings.HasPrefix(position, "+") {
		return nil, invalid(LabelAddDep, "position %q must start with - or +", position)
	}
	a, err := NewAttrs(LabelAddDep, attrs)
	if err != nil {
		return nil, err
	}
	return &AddDep{Gov: gov, Reln: reln, Name: name, Position: position, Attrs: a, Weight: weight}, nil
}

func (e *AddDep) Label() string { return LabelAddDep }

func (e *AddDep) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	if _, ok := word(g, b, e.Gov); !ok {
		return false
	}
	last := g.MaxIndex()
	target := last + 1
	switch {
	case e.Position == "" || e.Position == "+":
	case e.Position == "-":
		target = g.Words()[0].Index
	default:
		ref, ok := word(g, b, e.Position[1:])
		if !ok {
			return false
		}
		target = ref.Index
		if e.Position[0] == '+' {
			target++
		}
	}

	dep := newWordLike(g, target, "")
	e.Attrs.applyTo(dep)
	if target > last {
		mustAddWord(g, dep)
	} else {
		// Park the new word past the end, open the slot, then move it in.
		dep.Index = last + 2
		mustAddWord(g, dep)
		reindex.MoveNodes(g, b,
			func(i int) bool { return i >= target && i <= last },
			func(i int) int { return i + 1 },
			true)
		dep, _ = reindex.MoveNode(g, b, dep, target)
	}

	gov, ok := word(g, b, e.Gov)
	if !ok {
		inconsistent("governor %q lost while opening a slot", e.Gov)
	}
	mustAddEdge(g, gov, dep, e.Reln, e.Weight, false)
	if e.Name != "" {
		b.BindWord(e.Name, dep)
	}
	return true
}

func (e *AddDep) EditString() string {
	lw := newLine(LabelAddDep).flag("gov", e.Gov).flag("reln", e.Reln).
		optFlag("name", e.Name).optFlag("position", e.Position)
	if e.Weight != semgraph.DefaultWeight {
		lw.flag("weight", formatWeight(e.Weight))
	}
	return lw.attrs(e.Attrs).String()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}

// EditNode overwrites attributes of a bound word.
type EditNode struct {
	Node           string
	Attrs          Attrs
	UpdateFeatures map[string]string
	RemoveFeatures []string
	Remove         []string
}

// NewEditNode validates and returns an EditNode edit. At least one change
// must be requested.
func NewEditNode(node string, attrs map[string]string, updateFeatures map[string]string, removeFeatures, remove []string) (*EditNode, error) {
	if node == "" {
		return nil, invalid(LabelEditNode, "-node is required")
	}
	a, err := NewAttrs(LabelEditNode, attrs)
	if err != nil {
		return nil, err
	}
	var canonRemove []string
	for _, r := range remove {
		c, err := semgraph.CanonicalAttr(r)
		if err != nil {
			return nil, invalid(LabelEditNode, "-remove: %v", err)
		}
		canonRemove = append(canonRemove, c)
	}
	if len(a) == 0 && len(updateFeatures) == 0 && len(removeFeatures) == 0 && len(canonRemove) == 0 {
		return nil, invalid(LabelEditNode, "nothing to change on %q", node)
	}
	slices.Sort(canonRemove)
	rf := slices.Clone(removeFeatures)
	slices.Sort(rf)
	return &EditNode{Node: node, Attrs: a, UpdateFeatures: updateFeatures, RemoveFeatures: rf, Remove: canonRemove}, nil
}

func (e *EditNode) Label() string { return LabelEditNode }

func (e *EditNode) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w, ok := word(g, b, e.Node)
	if !ok {
		return false
	}
	changed := e.Attrs.applyTo(w)
	for _, name := range e.Remove {
		c, _ := w.SetAttr(name, "")
		changed = changed || c
	}
	for k, v := range e.UpdateFeatures {
		if cur, ok := w.Features[k]; ok && cur == v {
			continue
		}
		if w.Features == nil {
			w.Features = make(map[string]string)
		}
		w.Features[k] = v
		changed = true
	}
	for _, k := range e.RemoveFeatures {
		if _, ok := w.Features[k]; ok {
			delete(w.Features, k)
			changed = true
		}
	}
	return changed
}

func (e *EditNode) EditString() string {
	lw := newLine(LabelEditNode).flag("node", e.Node).attrs(e.Attrs)
	if len(e.UpdateFeatures) > 0 {
		lw.flag("updateMorphoFeatures", semgraph.FormatFeatures(e.UpdateFeatures))
	}
	for _, k := range e.RemoveFeatures {
		lw.flag("removeMorphoFeatures", k)
	}
	for _, r := range e.Remove {
		lw.flag("remove", r)
	}
	return lw.String()
}

// Lemmatize recomputes the lemma of a word from its form and tag.
type Lemmatize struct {
	Node       string
	Language   string
	lemmatizer lemma.Lemmatizer
}

// NewLemmatize validates and returns a Lemmatize edit. Only English is supported.
func NewLemmatize(node, language string) (*Lemmatize, error) {
	if node == "" {
		return nil, invalid(LabelLemmatize, "-node is required")
	}
	l, err := lemma.ForLanguage(language)
	if err != nil {
		return nil, invalid(LabelLemmatize, "%v", err)
	}
	return &Lemmatize{Node: node, Language: language, lemmatizer: l}, nil
}

func (e *Lemmatize) Label() string { return LabelLemmatize }

func (e *Lemmatize) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w, ok := word(g, b, e.Node)
	if !ok {
		return false
	}
	l := e.lemmatizer.Lemma(w.Text, w.Tag)
	if l == w.Lemma {
		return false
	}
	w.Lemma = l
	return true
}

func (e *Lemmatize) EditString() string {
	return newLine(LabelLemmatize).flag("node", e.Node).String()
}
