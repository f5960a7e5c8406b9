package semgraph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"

	"github.com/gowebpki/jcs"
)

type wordState struct {
	DocID      string            `json:"doc,omitempty"`
	SentIndex  int               `json:"sent"`
	Index      int               `json:"idx"`
	CopyCount  int               `json:"copy,omitempty"`
	Text       string            `json:"word"`
	Value      string            `json:"value,omitempty"`
	Lemma      string            `json:"lemma,omitempty"`
	Tag        string            `json:"tag,omitempty"`
	CPos       string            `json:"cpos,omitempty"`
	NER        string            `json:"ner,omitempty"`
	Before     string            `json:"before,omitempty"`
	After      string            `json:"after,omitempty"`
	Features   map[string]string `json:"feats,omitempty"`
	IsMWT      bool              `json:"mwt,omitempty"`
	IsFirstMWT bool              `json:"mwtFirst,omitempty"`
	MWTText    string            `json:"mwtText,omitempty"`
}

type edgeState struct {
	Gov    Key     `json:"gov"`
	Dep    Key     `json:"dep"`
	Reln   string  `json:"reln"`
	Weight float64 `json:"weight"`
	Extra  bool    `json:"extra,omitempty"`
}

type graphState struct {
	Words []wordState `json:"words"`
	Edges []edgeState `json:"edges"`
	Roots []Key       `json:"roots"`
}

func (g *Graph) state() graphState {
	var s graphState
	for _, w := range g.Words() {
		ws := wordState{
			DocID: w.DocID, SentIndex: w.SentIndex, Index: w.Index, CopyCount: w.CopyCount,
			Text: w.Text, Value: w.Value, Lemma: w.Lemma, Tag: w.Tag, CPos: w.CPos, NER: w.NER,
			Before: w.Before, After: w.After,
			IsMWT: w.IsMWT, IsFirstMWT: w.IsFirstMWT, MWTText: w.MWTText,
		}
		if len(w.Features) > 0 {
			ws.Features = w.Features
		}
		s.Words = append(s.Words, ws)
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, edgeState{Gov: e.Gov.Key(), Dep: e.Dep.Key(), Reln: e.Reln, Weight: e.Weight, Extra: e.Extra})
	}
	for _, r := range g.Roots() {
		s.Roots = append(s.Roots, r.Key())
	}
	return s
}

// Equal reports whether g and o are structurally identical: the same words
// with the same attributes, the same edge values and the same roots.
func (g *Graph) Equal(o *Graph) bool {
	if g == o {
		return true
	}
	if g == nil || o == nil || g.Size() != o.Size() {
		return false
	}
	return reflect.DeepEqual(g.state(), o.state())
}

// Fingerprint returns a hex sha256 over the canonical JSON form of the graph.
// Structurally identical graphs share a fingerprint.
func (g *Graph) Fingerprint() string {
	data, err := json.Marshal(g.state())
	if err != nil {
		panic(err)
	}
	data, err = jcs.Transform(data)
	if err != nil {
		panic(err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
