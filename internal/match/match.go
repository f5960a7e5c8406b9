// Package match finds bindings of symbolic names to words and edges of a
// graph. The rewrite executor only depends on the Pattern and Matcher
// interfaces; Structural is a small built-in implementation that matches
// declared nodes, edges and adjacency constraints.
package match

import (
	"errors"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

// ErrInvalidPattern is wrapped by every pattern construction error.
var ErrInvalidPattern = errors.New("invalid pattern")

// Pattern produces matchers against a graph.
type Pattern interface {
	Matcher(g *semgraph.Graph) Matcher
}

// Matcher walks the matches of a pattern on one graph. Next advances to the
// next match and reports whether there is one; Bindings returns a fresh
// binding table for the current match.
type Matcher interface {
	Next() bool
	Bindings() *binding.Bindings
}
