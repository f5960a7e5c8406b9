package edit

import (
	"maps"
	"slices"
	"strings"

	"github.com/vk/semgraft/internal/semgraph"
)

// Attrs is a literal attribute set keyed by canonical attribute name.
type Attrs map[string]string

// NewAttrs validates raw attribute names and canonicalizes them. Index
// attributes are rejected.
func NewAttrs(label string, raw map[string]string) (Attrs, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	a := make(Attrs, len(raw))
	for name, v := range raw {
		canon, err := semgraph.CanonicalAttr(name)
		if err != nil {
			return nil, invalid(label, "%v", err)
		}
		a[canon] = v
	}
	return a, nil
}

// names returns the attribute names in application order: the surface form
// first, because setting it also resets the value, then the rest sorted.
func (a Attrs) names() []string {
	names := slices.Sorted(maps.Keys(a))
	if i := slices.Index(names, semgraph.AttrWord); i > 0 {
		names = slices.Delete(names, i, i+1)
		names = slices.Insert(names, 0, semgraph.AttrWord)
	}
	return names
}

// applyTo sets every attribute on w and reports whether anything changed.
func (a Attrs) applyTo(w *semgraph.Word) bool {
	changed := false
	for _, name := range a.names() {
		c, err := w.SetAttr(name, a[name])
		if err != nil {
			inconsistent("attribute %q passed validation: %v", name, err)
		}
		changed = changed || c
	}
	return changed
}

// lineWriter builds edit lines.
type lineWriter struct {
	sb strings.Builder
}

func newLine(label string) *lineWriter {
	lw := &lineWriter{}
	lw.sb.WriteString(label)
	return lw
}

func (lw *lineWriter) flag(name, value string) *lineWriter {
	lw.sb.WriteString(" -")
	lw.sb.WriteString(name)
	lw.sb.WriteByte(' ')
	lw.sb.WriteString(quote(value))
	return lw
}

func (lw *lineWriter) optFlag(name, value string) *lineWriter {
	if value == "" {
		return lw
	}
	return lw.flag(name, value)
}

func (lw *lineWriter) bare(value string) *lineWriter {
	lw.sb.WriteByte(' ')
	lw.sb.WriteString(quote(value))
	return lw
}

func (lw *lineWriter) attrs(a Attrs) *lineWriter {
	for _, name := range a.names() {
		lw.flag(name, a[name])
	}
	return lw
}

func (lw *lineWriter) String() string {
	return lw.sb.String()
}

// quote wraps a value in double quotes when the line tokenizer would
// otherwise split or drop it.
func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\r\n\"'\\") {
		var sb strings.Builder
		sb.WriteByte('"')
		for _, r := range v {
			if r == '"' || r == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('"')
		return sb.String()
	}
	return v
}
