// This file translates the decoded HCL blocks into the format-agnostic
// config model.

package hcl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/semgraft/internal/config"
	"github.com/vk/semgraft/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

func (l *Loader) translateWordlist(ctx context.Context, file string, b *wordlistBlock) (*config.Wordlist, error) {
	src := sourceOf(b.DeclRange)
	logger := ctxlog.FromContext(ctx).With("wordlist", b.Name, "source", src)

	words := slices.Clone(b.Words)
	if b.File != "" {
		path := b.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(file), path)
		}
		fromFile, err := readWordFile(path)
		if err != nil {
			return nil, fmt.Errorf("wordlist %q (%s): %w", b.Name, src, err)
		}
		logger.Debug("Read wordlist file.", "path", path, "words", len(fromFile))
		words = append(words, fromFile...)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("wordlist %q (%s) has no words", b.Name, src)
	}
	return &config.Wordlist{Name: b.Name, Words: words, Source: src}, nil
}

// readWordFile returns the non-blank lines of path, skipping # comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, sc.Err()
}

func (l *Loader) translateRule(ctx context.Context, b *ruleBlock) (*config.Rule, error) {
	src := sourceOf(b.DeclRange)
	logger := ctxlog.FromContext(ctx).With("rule", b.UID, "source", src)
	logger.Debug("Translating HCL rule to internal config model.")

	r := &config.Rule{
		UID:      b.UID,
		Notes:    b.Notes,
		Language: b.Language,
		Source:   src,
	}
	for _, n := range b.Nodes {
		attrs, err := bodyStrings(n.Attrs)
		if err != nil {
			return nil, fmt.Errorf("rule %q (%s) node %q: %w", b.UID, src, n.Name, err)
		}
		r.Nodes = append(r.Nodes, &config.Node{Name: n.Name, Attrs: attrs, Root: n.Root})
	}
	for _, e := range b.Edges {
		r.Edges = append(r.Edges, &config.Edge{
			Name:    e.Name,
			Gov:     e.Gov,
			Dep:     e.Dep,
			Reln:    e.Reln,
			Negated: e.Negated,
		})
	}
	for _, pair := range b.Adjacent {
		if len(pair) != 2 {
			return nil, fmt.Errorf("rule %q (%s): adjacent entries need exactly two node names, got %v", b.UID, src, pair)
		}
		r.Adjacent = append(r.Adjacent, [2]string{pair[0], pair[1]})
	}
	for _, w := range b.When {
		p, err := translatePredicate(w)
		if err != nil {
			return nil, fmt.Errorf("rule %q (%s): %w", b.UID, src, err)
		}
		r.When = append(r.When, p)
	}
	for _, line := range b.EditLines {
		r.Edits = append(r.Edits, &config.Edit{Line: line})
	}
	for _, e := range b.Edits {
		args, err := exprStrings(e.Args)
		if err != nil {
			return nil, fmt.Errorf("rule %q (%s) edit args: %w", b.UID, sourceOf(e.DeclRange), err)
		}
		r.Edits = append(r.Edits, &config.Edit{Line: e.Line, Args: args})
	}
	if len(r.Edits) == 0 {
		logger.Warn("Rule has no edits and will never change a graph.")
	}
	return r, nil
}

func translatePredicate(w *whenBlock) (*config.Predicate, error) {
	p := &config.Predicate{
		Match:    w.Match,
		Wordlist: w.Wordlist,
		Node:     w.Node,
		Field:    w.Field,
	}
	switch p.Match {
	case "":
		p.Match = config.MatchAll
	case config.MatchAll, config.MatchAny:
	default:
		return nil, fmt.Errorf("when: match must be %q or %q, got %q", config.MatchAll, config.MatchAny, w.Match)
	}
	if p.Wordlist != "" {
		if len(w.When) > 0 {
			return nil, fmt.Errorf("when: a wordlist test cannot have nested when blocks")
		}
		if p.Node == "" {
			return nil, fmt.Errorf("when: wordlist %q needs a node", p.Wordlist)
		}
		return p, nil
	}
	if p.Node != "" || p.Field != "" {
		return nil, fmt.Errorf("when: node and field need a wordlist")
	}
	for _, child := range w.When {
		c, err := translatePredicate(child)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, c)
	}
	return p, nil
}

// bodyStrings evaluates every attribute of body as a string.
func bodyStrings(body hcl.Body) (map[string]string, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		s, err := asString(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

// exprStrings evaluates an object expression such as { lemma = "be" } into a
// map of strings. An omitted expression yields nil.
func exprStrings(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", val.Type().FriendlyName())
	}
	out := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		s, err := asString(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k.AsString(), err)
		}
		out[k.AsString()] = s
	}
	return out, nil
}

func asString(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("value must be known and not null")
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}

func sourceOf(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
