package edit

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/vk/semgraft/internal/semgraph"
)

// Flags with a meaning of their own. Any other -flag names a word attribute.
var knownFlags = map[string]bool{
	"gov": true, "dep": true, "edge": true, "reln": true, "node": true,
	"nodearg": true, "weight": true, "headindex": true, "name": true,
	"position": true, "regex": true, "exact": true,
	"updatemorphofeatures": true, "removemorphofeatures": true, "remove": true,
}

// Flags that may be given more than once. Repeating any other known flag is
// an error.
var repeatableFlags = map[string]bool{
	"node": true, "name": true, "regex": true, "exact": true,
	"updatemorphofeatures": true, "removemorphofeatures": true, "remove": true,
}

// args is a tokenized edit line.
type args struct {
	label  string
	single map[string]string
	multi  map[string][]string
	attrs  map[string]string
	bare   []string
}

func (a *args) get(flag string) string { return a.single[flag] }

// one returns the value of a repeatable flag that this edit allows only once.
// An absent flag yields "" so the constructor can report it as missing.
func (a *args) one(flag string) (string, error) {
	if n := len(a.multi[flag]); n > 1 {
		return "", invalid(a.label, "expected one -%s, got %d", flag, n)
	}
	return a.get(flag), nil
}

func (a *args) weight() (float64, error) {
	v, ok := a.single["weight"]
	if !ok {
		return semgraph.DefaultWeight, nil
	}
	w, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, invalid(a.label, "-weight %q: %v", v, err)
	}
	return w, nil
}

func (a *args) headIndex() (int, error) {
	v, ok := a.single["headindex"]
	if !ok {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalid(a.label, "-headIndex %q: %v", v, err)
	}
	return i, nil
}

// noAttrs rejects attribute flags on edits that take none.
func (a *args) noAttrs() error {
	for name := range a.attrs {
		if _, err := semgraph.CanonicalAttr(name); err != nil {
			return invalid(a.label, "%v", err)
		}
		return invalid(a.label, "unexpected flag -%s", name)
	}
	return nil
}

func (a *args) noBare() error {
	if len(a.bare) > 0 {
		return invalid(a.label, "unexpected argument %q", a.bare[0])
	}
	return nil
}

// ParseEditLine builds an edit from a line such as
//
//	addDep -gov antennae -reln dep -position +antennae -word blue
//
// extra supplies additional word attributes, as rule files may give them
// apart from the line. language is the rule's language, used by lemmatize.
func ParseEditLine(line string, extra map[string]string, language string) (Edit, error) {
	toks, err := tokenizeLine(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEdit, line, err)
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty edit line", ErrInvalidEdit)
	}
	a := &args{
		label:  toks[0],
		single: make(map[string]string),
		multi:  make(map[string][]string),
		attrs:  make(map[string]string),
	}
	for i := 1; i < len(toks); i++ {
		t := toks[i]
		if len(t) < 2 || t[0] != '-' {
			a.bare = append(a.bare, t)
			continue
		}
		if i+1 >= len(toks) {
			return nil, invalid(a.label, "flag %s has no value", t)
		}
		i++
		name, value := t[1:], toks[i]
		lower := strings.ToLower(name)
		if !knownFlags[lower] {
			a.attrs[name] = value
			continue
		}
		if _, seen := a.single[lower]; seen && !repeatableFlags[lower] {
			return nil, invalid(a.label, "flag -%s given more than once", name)
		}
		a.single[lower] = value
		a.multi[lower] = append(a.multi[lower], value)
	}
	maps.Copy(a.attrs, extra)
	if v, ok := a.single["nodearg"]; ok {
		parsed, err := parseNodeArg(v)
		if err != nil {
			return nil, invalid(a.label, "-nodearg: %v", err)
		}
		maps.Copy(a.attrs, parsed)
	}
	return build(a, language)
}

func build(a *args, language string) (Edit, error) {
	switch strings.ToLower(a.label) {
	case strings.ToLower(LabelAddNode):
		name, err := a.one("name")
		if err != nil {
			return nil, err
		}
		return NewAddNode(name, a.attrs)
	case strings.ToLower(LabelAddDep):
		name, err := a.one("name")
		if err != nil {
			return nil, err
		}
		w, err := a.weight()
		if err != nil {
			return nil, err
		}
		return NewAddDep(a.get("gov"), a.get("reln"), name, a.get("position"), a.attrs, w)
	case strings.ToLower(LabelAddEdge):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		w, err := a.weight()
		if err != nil {
			return nil, err
		}
		return NewAddEdge(a.get("gov"), a.get("dep"), a.get("reln"), w)
	case strings.ToLower(LabelRemoveEdge):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		return NewRemoveEdge(a.get("reln"), a.get("gov"), a.get("dep"))
	case strings.ToLower(LabelRemoveNamedEdge):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		return NewRemoveNamedEdge(a.get("edge"))
	case strings.ToLower(LabelRelabelNamedEdge):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		return NewRelabelNamedEdge(a.get("edge"), a.get("reln"))
	case strings.ToLower(LabelReattachNamedEdge):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		return NewReattachNamedEdge(a.get("edge"), a.get("gov"), a.get("dep"))
	case strings.ToLower(LabelKillAllIncomingEdges):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		node, err := a.one("node")
		if err != nil {
			return nil, err
		}
		return NewKillAllIncomingEdges(node)
	case strings.ToLower(LabelDeleteLeaf):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		node, err := a.one("node")
		if err != nil {
			return nil, err
		}
		return NewDeleteLeaf(node)
	case strings.ToLower(LabelDeleteGraphFromNode):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		node, err := a.one("node")
		if err != nil {
			return nil, err
		}
		return NewDeleteGraphFromNode(node)
	case strings.ToLower(LabelCollapseSubtree):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		node, err := a.one("node")
		if err != nil {
			return nil, err
		}
		return NewCollapseSubtree(node)
	case strings.ToLower(LabelKillNonRootedNodes):
		if err := errors.Join(a.noAttrs(), a.noBare()); err != nil {
			return nil, err
		}
		return NewKillNonRootedNodes(), nil
	case strings.ToLower(LabelReindexGraph):
		if err := errors.Join(a.noAttrs(), a.noBare()); err != nil {
			return nil, err
		}
		return NewReindexGraph(), nil
	case strings.ToLower(LabelEditNode):
		node, err := a.one("node")
		if err != nil {
			return nil, err
		}
		var update map[string]string
		for _, v := range a.multi["updatemorphofeatures"] {
			if update == nil {
				update = make(map[string]string)
			}
			maps.Copy(update, semgraph.ParseFeatures(v))
		}
		var removeFeats []string
		for _, v := range a.multi["removemorphofeatures"] {
			removeFeats = append(removeFeats, splitList(v)...)
		}
		var remove []string
		for _, v := range a.multi["remove"] {
			remove = append(remove, splitList(v)...)
		}
		return NewEditNode(node, a.attrs, update, removeFeats, remove)
	case strings.ToLower(LabelLemmatize):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		node, err := a.one("node")
		if err != nil {
			return nil, err
		}
		return NewLemmatize(node, language)
	case strings.ToLower(LabelMergeNodes):
		return NewMergeNodes(a.multi["node"], a.attrs)
	case strings.ToLower(LabelCombineMWT):
		text := ""
		for name, v := range a.attrs {
			if strings.EqualFold(name, "word") {
				text = v
				continue
			}
			return nil, invalid(a.label, "unexpected flag -%s", name)
		}
		return NewCombineMWT(a.multi["node"], text)
	case strings.ToLower(LabelSplitWord):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		return buildSplitWord(a)
	case strings.ToLower(LabelSetPhraseHead):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		h, err := a.headIndex()
		if err != nil {
			return nil, err
		}
		w, err := a.weight()
		if err != nil {
			return nil, err
		}
		return NewSetPhraseHead(a.multi["node"], h, a.get("reln"), w)
	case strings.ToLower(LabelSetRoots):
		if err := a.noAttrs(); err != nil {
			return nil, err
		}
		return NewSetRoots(a.bare)
	}
	return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidEdit, a.label)
}

func buildSplitWord(a *args) (Edit, error) {
	regexes, exacts := a.multi["regex"], a.multi["exact"]
	if len(regexes) > 0 && len(exacts) > 0 {
		return nil, invalid(a.label, "-regex and -exact cannot be mixed")
	}
	pieces, exact := regexes, false
	if len(exacts) > 0 {
		pieces, exact = exacts, true
	}
	node, err := a.one("node")
	if err != nil {
		return nil, err
	}
	h, err := a.headIndex()
	if err != nil {
		return nil, err
	}
	var names map[int]string
	for _, v := range a.multi["name"] {
		k, name, ok := strings.Cut(v, "=")
		idx, err := strconv.Atoi(k)
		if !ok || err != nil || name == "" {
			return nil, invalid(a.label, "-name %q must look like 0=name", v)
		}
		if names == nil {
			names = make(map[int]string)
		}
		names[idx] = name
	}
	return NewSplitWord(node, pieces, exact, h, a.get("reln"), names)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(v, func(r rune) bool { return r == '|' || r == ',' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseNodeArg reads a literal attribute set like {word:blue;tag:JJ}.
func parseNodeArg(v string) (map[string]string, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "{") || !strings.HasSuffix(v, "}") {
		return nil, fmt.Errorf("%q is not wrapped in braces", v)
	}
	out := make(map[string]string)
	body := strings.TrimSpace(v[1 : len(v)-1])
	if body == "" {
		return out, nil
	}
	for _, part := range strings.FieldsFunc(body, func(r rune) bool { return r == ';' || r == ',' }) {
		k, val, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%q is not key:value", part)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out, nil
}

// tokenizeLine splits on whitespace, honoring double quotes with backslash
// escapes and single quotes without.
func tokenizeLine(line string) ([]string, error) {
	var toks []string
	var cur strings.Builder
	inToken := false
	var quote rune
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '"' && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inToken {
				toks = append(toks, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 || escaped {
		return nil, errors.New("unterminated quote")
	}
	if inToken {
		toks = append(toks, cur.String())
	}
	return toks, nil
}
