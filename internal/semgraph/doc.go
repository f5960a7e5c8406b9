// Package semgraph implements the dependency graph that rewrite rules operate
// on: words (nodes) keyed by their position in a sentence, labeled directed
// edges between them, and a set of roots.
//
// # Identity
//
// A Word is identified by its Key (document id, sentence index, position
// index and copy count). Attributes such as the surface form or the lemma are
// mutable and never take part in identity. Because the index is part of the
// identity, changing it means replacing the word; see package reindex.
//
// # Ordering
//
// Every listing the package returns is sorted with Compare, which orders words
// by sentence index, then position index, then copy count. Edge listings are
// ordered by governor, dependent and relation.
//
// # Invariants
//
//   - every edge endpoint is a member of the graph
//   - every root is a member of the graph
//   - no operation renumbers words implicitly
//
// The root set can become empty after a removal; callers that must keep it
// non-empty call RepairRoots.
//
// A Graph is not safe for concurrent use. Clone it to hand a copy to another
// goroutine.
package semgraph
