// Package predicate holds the conditions a match must satisfy before a
// rewrite script runs on it.
package predicate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

// ErrInvalidPredicate is wrapped by predicate construction errors.
var ErrInvalidPredicate = errors.New("invalid predicate")

// Predicate tests the bindings of one match.
type Predicate interface {
	Test(b *binding.Bindings) bool
}

// Func adapts a plain function to Predicate.
type Func func(b *binding.Bindings) bool

func (f Func) Test(b *binding.Bindings) bool { return f(b) }

// And holds when every member holds. An empty And always holds.
type And []Predicate

func (a And) Test(b *binding.Bindings) bool {
	for _, p := range a {
		if !p.Test(b) {
			return false
		}
	}
	return true
}

// Or holds when any member holds. An empty Or never holds.
type Or []Predicate

func (o Or) Test(b *binding.Bindings) bool {
	for _, p := range o {
		if p.Test(b) {
			return true
		}
	}
	return false
}

// Wordlist holds when an attribute of a bound word is one of a fixed set of
// strings. An unbound node fails the test.
type Wordlist struct {
	Resource string
	Node     string
	Attr     string

	words map[string]struct{}
}

// NewWordlist returns a Wordlist predicate over the given words. resource is
// the name the list was registered under and only serves diagnostics.
func NewWordlist(resource, node, attr string, words []string) (*Wordlist, error) {
	if node == "" {
		return nil, fmt.Errorf("%w: wordlist %q: node is required", ErrInvalidPredicate, resource)
	}
	if attr == "" {
		attr = semgraph.AttrWord
	}
	canon, err := semgraph.CanonicalAttr(attr)
	if err != nil {
		return nil, fmt.Errorf("%w: wordlist %q: %v", ErrInvalidPredicate, resource, err)
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &Wordlist{Resource: resource, Node: node, Attr: canon, words: set}, nil
}

func (p *Wordlist) Test(b *binding.Bindings) bool {
	w, ok := b.Word(p.Node)
	if !ok {
		return false
	}
	v, err := w.Attr(p.Attr)
	if err != nil {
		return false
	}
	_, hit := p.words[v]
	return hit
}

func (p *Wordlist) String() string {
	words := make([]string, 0, len(p.words))
	for w := range p.words {
		words = append(words, w)
	}
	slices.Sort(words)
	return fmt.Sprintf("wordlist %s(%s.%s) [%s]", p.Resource, p.Node, p.Attr, strings.Join(words, " "))
}
