package config

// Model is the unified, format-agnostic representation of all loaded rule
// files.
type Model struct {
	// Rules keep the order in which they were found; that is the order the
	// patterns run in.
	Rules     []*Rule
	Wordlists map[string]*Wordlist
}

// Wordlist is a named set of strings usable from rule predicates.
type Wordlist struct {
	Name   string
	Words  []string
	Source string
}

// Rule is one pattern together with its edit script.
type Rule struct {
	UID      string
	Notes    string
	Language string
	Nodes    []*Node
	Edges    []*Edge
	Adjacent [][2]string
	// When predicates must all hold for a match to be rewritten.
	When  []*Predicate
	Edits []*Edit
	// Source locates the rule for diagnostics, e.g. "rules/en.hcl:12".
	Source string
}

// Node is a named word constraint.
type Node struct {
	Name  string
	Attrs map[string]string
	Root  bool
}

// Edge is an edge constraint between declared nodes.
type Edge struct {
	Name    string
	Gov     string
	Dep     string
	Reln    string
	Negated bool
}

// Predicate is either a wordlist test (Wordlist set) or a group of nested
// predicates combined according to Match.
type Predicate struct {
	// Match is "all" (the default) or "any".
	Match    string
	Wordlist string
	Node     string
	Field    string
	Children []*Predicate
}

// Predicate group modes.
const (
	MatchAll = "all"
	MatchAny = "any"
)

// Edit is one line of an edit script plus extra word attributes for it.
type Edit struct {
	Line string
	Args map[string]string
}
