package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/semgraft/internal/config"
	"github.com/vk/semgraft/internal/ctxlog"
	"github.com/vk/semgraft/internal/rewrite"
)

var (
	// ErrPopulated is returned when Populate is called a second time.
	ErrPopulated = errors.New("registry already populated")
	// ErrUnknownWordlist is wrapped when a rule names a wordlist nobody defined.
	ErrUnknownWordlist = errors.New("unknown wordlist")
	// ErrInvalidRule is wrapped by every rule compilation error.
	ErrInvalidRule = errors.New("invalid rule")
)

// DefaultLanguage is used for rules that do not name one.
const DefaultLanguage = "en"

// Registry holds the compiled patterns and wordlists of a single application
// instance.
type Registry struct {
	patterns  []*rewrite.Pattern
	byUID     map[string]*rewrite.Pattern
	wordlists map[string][]string
	populated bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byUID:     make(map[string]*rewrite.Pattern),
		wordlists: make(map[string][]string),
	}
}

// Populate compiles every rule of model. All broken rules are reported
// together; on error the registry stays empty. obs, if not nil, is attached to
// every pattern.
func (r *Registry) Populate(ctx context.Context, model *config.Model, obs rewrite.Observer) error {
	logger := ctxlog.FromContext(ctx)
	if r.populated {
		return ErrPopulated
	}

	wordlists := make(map[string][]string, len(model.Wordlists))
	for name, wl := range model.Wordlists {
		wordlists[name] = slices.Clone(wl.Words)
	}

	var (
		errs     []error
		patterns []*rewrite.Pattern
		byUID    = make(map[string]*rewrite.Pattern, len(model.Rules))
	)
	for _, rule := range model.Rules {
		if _, dup := byUID[rule.UID]; dup {
			errs = append(errs, fmt.Errorf("%w: rule %q defined twice", ErrInvalidRule, rule.UID))
			continue
		}
		p, err := compileRule(rule, wordlists, obs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug("Compiled rule.", "uid", rule.UID, "edits", len(p.Edits), "source", rule.Source)
		patterns = append(patterns, p)
		byUID[p.UID] = p
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n%w", errors.Join(errs...))
	}

	r.patterns, r.byUID, r.wordlists, r.populated = patterns, byUID, wordlists, true
	logger.Info("Registry populated.", "rules", len(patterns), "wordlists", len(wordlists))
	return nil
}

// Patterns returns the compiled patterns in rule order.
func (r *Registry) Patterns() []*rewrite.Pattern {
	return slices.Clone(r.patterns)
}

// Pattern looks a compiled pattern up by its rule UID.
func (r *Registry) Pattern(uid string) (*rewrite.Pattern, bool) {
	p, ok := r.byUID[uid]
	return p, ok
}

// Wordlist returns a copy of the named wordlist.
func (r *Registry) Wordlist(name string) ([]string, bool) {
	words, ok := r.wordlists[name]
	return slices.Clone(words), ok
}
