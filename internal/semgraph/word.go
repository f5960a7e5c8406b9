package semgraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrUnknownAttribute is returned when an attribute name is not one a Word carries.
	ErrUnknownAttribute = errors.New("unknown word attribute")
	// ErrIndexAttribute is returned when a caller tries to set the index through
	// the attribute interface. Index changes go through reindex.MoveNode.
	ErrIndexAttribute = errors.New("index cannot be set as an attribute")
)

// Key is the identity of a word inside a graph.
type Key struct {
	DocID     string
	SentIndex int
	Index     int
	CopyCount int
}

func (k Key) String() string {
	if k.CopyCount > 0 {
		return fmt.Sprintf("%d.%d", k.Index, k.CopyCount)
	}
	return fmt.Sprintf("%d", k.Index)
}

// Word is a node of the graph. The first four fields form its identity and
// must not be modified while the word is a member of a graph.
type Word struct {
	DocID     string
	SentIndex int
	Index     int
	CopyCount int

	Text   string
	Value  string
	Lemma  string
	Tag    string
	CPos   string
	NER    string
	Before string
	After  string

	Features map[string]string

	IsMWT      bool
	IsFirstMWT bool
	MWTText    string
}

// NewWord returns a word at the given position with text as both its surface
// form and value.
func NewWord(index int, text string) *Word {
	return &Word{Index: index, Text: text, Value: text}
}

// Key returns the identity of w.
func (w *Word) Key() Key {
	return Key{DocID: w.DocID, SentIndex: w.SentIndex, Index: w.Index, CopyCount: w.CopyCount}
}

// Copy returns a deep copy of w, identity included.
func (w *Word) Copy() *Word {
	c := *w
	if w.Features != nil {
		c.Features = maps.Clone(w.Features)
	}
	return &c
}

// WithIndex returns a deep copy of w positioned at index.
func (w *Word) WithIndex(index int) *Word {
	c := w.Copy()
	c.Index = index
	return c
}

func (w *Word) String() string {
	return w.Text + "-" + w.Key().String()
}

// Compare orders words by sentence index, position index and copy count.
// The document id only breaks ties between otherwise equal keys.
func Compare(a, b *Word) int {
	return CompareKeys(a.Key(), b.Key())
}

// CompareKeys is Compare on bare keys.
func CompareKeys(a, b Key) int {
	switch {
	case a.SentIndex != b.SentIndex:
		return cmpInt(a.SentIndex, b.SentIndex)
	case a.Index != b.Index:
		return cmpInt(a.Index, b.Index)
	case a.CopyCount != b.CopyCount:
		return cmpInt(a.CopyCount, b.CopyCount)
	}
	return strings.Compare(a.DocID, b.DocID)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// SortWords sorts ws in place with Compare.
func SortWords(ws []*Word) {
	slices.SortFunc(ws, Compare)
}

// Attribute names understood by Attr and SetAttr.
const (
	AttrWord           = "word"
	AttrValue          = "value"
	AttrLemma          = "lemma"
	AttrTag            = "tag"
	AttrCPos           = "cpos"
	AttrNER            = "ner"
	AttrBefore         = "before"
	AttrAfter          = "after"
	AttrMorphoFeatures = "morphofeatures"
	AttrMWTText        = "mwttext"
)

var attrAliases = map[string]string{
	"word":           AttrWord,
	"text":           AttrWord,
	"form":           AttrWord,
	"value":          AttrValue,
	"lemma":          AttrLemma,
	"tag":            AttrTag,
	"pos":            AttrTag,
	"xpos":           AttrTag,
	"cpos":           AttrCPos,
	"upos":           AttrCPos,
	"ner":            AttrNER,
	"before":         AttrBefore,
	"after":          AttrAfter,
	"morphofeatures": AttrMorphoFeatures,
	"feats":          AttrMorphoFeatures,
	"mwttext":        AttrMWTText,
}

// CanonicalAttr resolves an attribute name or alias, case-insensitively.
func CanonicalAttr(name string) (string, error) {
	lower := strings.ToLower(name)
	if lower == "idx" || lower == "index" {
		return "", fmt.Errorf("%w: %q", ErrIndexAttribute, name)
	}
	canon, ok := attrAliases[lower]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return canon, nil
}

// Attr returns the value of the named attribute.
func (w *Word) Attr(name string) (string, error) {
	canon, err := CanonicalAttr(name)
	if err != nil {
		return "", err
	}
	switch canon {
	case AttrWord:
		return w.Text, nil
	case AttrValue:
		return w.Value, nil
	case AttrLemma:
		return w.Lemma, nil
	case AttrTag:
		return w.Tag, nil
	case AttrCPos:
		return w.CPos, nil
	case AttrNER:
		return w.NER, nil
	case AttrBefore:
		return w.Before, nil
	case AttrAfter:
		return w.After, nil
	case AttrMWTText:
		return w.MWTText, nil
	default:
		return FormatFeatures(w.Features), nil
	}
}

// SetAttr sets the named attribute and reports whether the value changed.
// Setting "word" also sets the value, as the surface form and the value are
// kept together unless the value is set explicitly afterwards.
func (w *Word) SetAttr(name, value string) (bool, error) {
	canon, err := CanonicalAttr(name)
	if err != nil {
		return false, err
	}
	set := func(dst *string) bool {
		if *dst == value {
			return false
		}
		*dst = value
		return true
	}
	switch canon {
	case AttrWord:
		a := set(&w.Text)
		b := set(&w.Value)
		return a || b, nil
	case AttrValue:
		return set(&w.Value), nil
	case AttrLemma:
		return set(&w.Lemma), nil
	case AttrTag:
		return set(&w.Tag), nil
	case AttrCPos:
		return set(&w.CPos), nil
	case AttrNER:
		return set(&w.NER), nil
	case AttrBefore:
		return set(&w.Before), nil
	case AttrAfter:
		return set(&w.After), nil
	case AttrMWTText:
		return set(&w.MWTText), nil
	default:
		feats := ParseFeatures(value)
		if maps.Equal(feats, w.Features) || (len(feats) == 0 && len(w.Features) == 0) {
			return false, nil
		}
		w.Features = feats
		return true, nil
	}
}

// FormatFeatures renders morphological features as sorted "k=v|k=v".
// An empty set renders as "".
func FormatFeatures(feats map[string]string) string {
	if len(feats) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(feats))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+feats[k])
	}
	return strings.Join(parts, "|")
}

// ParseFeatures is the inverse of FormatFeatures. "_" and "" both yield nil.
func ParseFeatures(s string) map[string]string {
	s = strings.TrimSpace(s)
	if s == "" || s == "_" {
		return nil
	}
	feats := make(map[string]string)
	for _, part := range strings.Split(s, "|") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		feats[k] = v
	}
	return feats
}
