package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a rule file may hold.
type fileRoot struct {
	Wordlists []*wordlistBlock `hcl:"wordlist,block"`
	Rules     []*ruleBlock     `hcl:"rule,block"`
}

type wordlistBlock struct {
	Name string `hcl:"name,label"`
	// File is read one word per line, relative to the rule file.
	File      string    `hcl:"file,optional"`
	Words     []string  `hcl:"words,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type ruleBlock struct {
	UID       string       `hcl:"uid,label"`
	Notes     string       `hcl:"notes,optional"`
	Language  string       `hcl:"language,optional"`
	Nodes     []*nodeBlock `hcl:"node,block"`
	Edges     []*edgeBlock `hcl:"edge,block"`
	Adjacent  [][]string   `hcl:"adjacent,optional"`
	When      []*whenBlock `hcl:"when,block"`
	EditLines []string     `hcl:"edits,optional"`
	Edits     []*editBlock `hcl:"edit,block"`
	DeclRange hcl.Range    `hcl:",def_range"`
}

// nodeBlock keeps its word constraints in Attrs; any attribute other than
// root is one.
type nodeBlock struct {
	Name  string   `hcl:"name,label"`
	Root  bool     `hcl:"root,optional"`
	Attrs hcl.Body `hcl:",remain"`
}

type edgeBlock struct {
	Name    string `hcl:"name,optional"`
	Gov     string `hcl:"gov,optional"`
	Dep     string `hcl:"dep,optional"`
	Reln    string `hcl:"reln,optional"`
	Negated bool   `hcl:"negated,optional"`
}

type whenBlock struct {
	Match    string       `hcl:"match,optional"`
	Wordlist string       `hcl:"wordlist,optional"`
	Node     string       `hcl:"node,optional"`
	Field    string       `hcl:"field,optional"`
	When     []*whenBlock `hcl:"when,block"`
}

type editBlock struct {
	Line      string         `hcl:"line"`
	Args      hcl.Expression `hcl:"args,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}
