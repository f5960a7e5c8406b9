package registry

import (
	"fmt"

	"github.com/vk/semgraft/internal/config"
	"github.com/vk/semgraft/internal/edit"
	"github.com/vk/semgraft/internal/match"
	"github.com/vk/semgraft/internal/predicate"
	"github.com/vk/semgraft/internal/rewrite"
)

func compileRule(rule *config.Rule, wordlists map[string][]string, obs rewrite.Observer) (*rewrite.Pattern, error) {
	where := fmt.Sprintf("rule %q", rule.UID)
	if rule.Source != "" {
		where += " (" + rule.Source + ")"
	}

	spec := match.Spec{Adjacent: rule.Adjacent}
	declared := make(map[string]bool, len(rule.Nodes))
	for _, n := range rule.Nodes {
		spec.Nodes = append(spec.Nodes, match.NodeSpec{Name: n.Name, Attrs: n.Attrs, Root: n.Root})
		declared[n.Name] = true
	}
	for _, e := range rule.Edges {
		spec.Edges = append(spec.Edges, match.EdgeSpec{
			Name:    e.Name,
			Gov:     e.Gov,
			Dep:     e.Dep,
			Reln:    e.Reln,
			Negated: e.Negated,
		})
	}
	m, err := match.NewStructural(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, where, err)
	}

	var pred predicate.Predicate
	if len(rule.When) > 0 {
		all := make(predicate.And, 0, len(rule.When))
		for _, w := range rule.When {
			p, err := compilePredicate(w, wordlists, declared)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, where, err)
			}
			all = append(all, p)
		}
		pred = all
	}

	language := rule.Language
	if language == "" {
		language = DefaultLanguage
	}
	edits := make([]edit.Edit, 0, len(rule.Edits))
	for i, es := range rule.Edits {
		e, err := edit.ParseEditLine(es.Line, es.Args, language)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: edit %d: %w", ErrInvalidRule, where, i+1, err)
		}
		edits = append(edits, e)
	}

	return &rewrite.Pattern{
		UID:       rule.UID,
		Notes:     rule.Notes,
		Language:  language,
		Match:     m,
		Predicate: pred,
		Edits:     edits,
		Observer:  obs,
	}, nil
}

func compilePredicate(p *config.Predicate, wordlists map[string][]string, declared map[string]bool) (predicate.Predicate, error) {
	if p.Wordlist != "" {
		words, ok := wordlists[p.Wordlist]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownWordlist, p.Wordlist)
		}
		if !declared[p.Node] {
			return nil, fmt.Errorf("wordlist %q tests undeclared node %q", p.Wordlist, p.Node)
		}
		return predicate.NewWordlist(p.Wordlist, p.Node, p.Field, words)
	}

	children := make([]predicate.Predicate, 0, len(p.Children))
	for _, c := range p.Children {
		cp, err := compilePredicate(c, wordlists, declared)
		if err != nil {
			return nil, err
		}
		children = append(children, cp)
	}
	if p.Match == config.MatchAny {
		return predicate.Or(children), nil
	}
	return predicate.And(children), nil
}
