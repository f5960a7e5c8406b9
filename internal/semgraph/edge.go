package semgraph

import (
	"cmp"
	"fmt"
	"strings"
)

// DefaultWeight is the weight given to edges created without an explicit one.
const DefaultWeight = 1.0

// Edge is a labeled dependency from Gov to Dep.
type Edge struct {
	Gov    *Word
	Dep    *Word
	Reln   string
	Weight float64
	Extra  bool
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Gov, e.Reln, e.Dep)
}

// SameValue reports whether e and o connect the same keys with the same
// relation, weight and extra flag.
func (e *Edge) SameValue(o *Edge) bool {
	return e.Gov.Key() == o.Gov.Key() &&
		e.Dep.Key() == o.Dep.Key() &&
		e.Reln == o.Reln &&
		e.Weight == o.Weight &&
		e.Extra == o.Extra
}

// CompareEdges orders edges by governor, dependent, relation, weight and extra.
func CompareEdges(a, b *Edge) int {
	if c := Compare(a.Gov, b.Gov); c != 0 {
		return c
	}
	if c := Compare(a.Dep, b.Dep); c != 0 {
		return c
	}
	if c := strings.Compare(a.Reln, b.Reln); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Weight, b.Weight); c != 0 {
		return c
	}
	switch {
	case a.Extra == b.Extra:
		return 0
	case !a.Extra:
		return -1
	default:
		return 1
	}
}
