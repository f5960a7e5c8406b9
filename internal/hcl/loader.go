package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/semgraft/internal/config"
	"github.com/vk/semgraft/internal/ctxlog"
	"github.com/vk/semgraft/internal/fsutil"
)

// ErrNoRuleFiles is returned when none of the paths holds a .hcl file.
var ErrNoRuleFiles = errors.New("no .hcl rule files found")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL rule loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from paths. Rules keep file order,
// then block order within a file. A wordlist or rule name defined twice is an
// error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoRuleFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &config.Model{Wordlists: make(map[string]*config.Wordlist)}
	seenRules := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, wl := range root.Wordlists {
			def, err := l.translateWordlist(ctx, file, wl)
			if err != nil {
				return nil, err
			}
			if prev, ok := model.Wordlists[def.Name]; ok {
				return nil, fmt.Errorf("wordlist %q defined twice: %s and %s", def.Name, prev.Source, def.Source)
			}
			model.Wordlists[def.Name] = def
		}
		for _, rb := range root.Rules {
			rule, err := l.translateRule(ctx, rb)
			if err != nil {
				return nil, err
			}
			if prev, ok := seenRules[rule.UID]; ok {
				return nil, fmt.Errorf("rule %q defined twice: %s and %s", rule.UID, prev, rule.Source)
			}
			seenRules[rule.UID] = rule.Source
			model.Rules = append(model.Rules, rule)
		}
	}

	logger.Debug("HCL loading complete.", "rules", len(model.Rules), "wordlists", len(model.Wordlists))
	return model, nil
}

// findAllHCLFiles expands the given paths into a flat list of .hcl files.
// Directories are searched recursively; a missing path is an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}
