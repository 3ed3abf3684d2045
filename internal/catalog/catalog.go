// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pluggable/pluggable/internal/issue"
	"github.com/pluggable/pluggable/pkg/compose"
	"github.com/pluggable/pluggable/pkg/plugin"
)

var (
	// ErrUnsupportedFormat is returned for catalog files that are neither CUE nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrInvalidCatalog is the sentinel wrapped by InvalidCatalogError.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

type (
	// Catalog is a loaded plugin catalog.
	Catalog struct {
		Path    string
		Plugins []PluginSpec
		Targets []TargetSpec
	}

	// PluginSpec declares one plugin.
	PluginSpec struct {
		Name       plugin.Name
		DependsOn  []plugin.Dependency
		Default    any
		HasDefault bool
	}

	// TargetSpec declares one target and the passes composing it.
	TargetSpec struct {
		Name string
		// Parent names an earlier target this one is derived from.
		Parent string
		Passes [][]compose.Request
	}

	// InvalidCatalogError lists every problem found while validating a catalog.
	InvalidCatalogError struct {
		Path     string
		Problems []string
	}

	dependencyDoc struct {
		Name     string `json:"name" toml:"name"`
		Relation string `json:"relation" toml:"relation"`
	}

	requestDoc struct {
		Plugin  string         `json:"plugin" toml:"plugin"`
		Default any            `json:"default,omitempty" toml:"default"`
		Options map[string]any `json:"options,omitempty" toml:"options"`
	}

	targetDoc struct {
		Name   string         `json:"name" toml:"name"`
		Parent string         `json:"parent,omitempty" toml:"parent"`
		Passes [][]requestDoc `json:"passes" toml:"passes"`
	}

	pluginDoc struct {
		Name      string          `toml:"name"`
		DependsOn []dependencyDoc `toml:"depends_on"`
		Default   any             `toml:"default"`
	}

	// document is the format-independent shape both decoders produce.
	document struct {
		Plugins []pluginDoc
		Targets []targetDoc
	}
)

func (e *InvalidCatalogError) Error() string {
	return fmt.Sprintf("%s: invalid catalog:\n  %s", e.Path, strings.Join(e.Problems, "\n  "))
}

func (e *InvalidCatalogError) Unwrap() error { return ErrInvalidCatalog }

// Load reads a catalog file. The format is chosen by extension: .cue or .toml.
func Load(path string) (*Catalog, error) {
	var (
		doc *document
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		doc, err = decodeCUE(path)
	case ".toml":
		doc, err = decodeTOML(path)
	default:
		err = fmt.Errorf("%w %q (use .cue or .toml)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, loadError(path, err)
	}

	c, err := build(path, doc)
	if err != nil {
		return nil, loadError(path, err)
	}
	return c, nil
}

func loadError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load plugin catalog").
		WithResource(path).
		Wrap(err)

	if errors.Is(err, fs.ErrNotExist) {
		return ctx.
			WithSuggestion("Pass the catalog path as the first argument").
			WithSuggestion("Set 'catalog' in your config file").
			WithIssue(issue.CatalogNotFoundId).
			BuildError()
	}
	return ctx.
		WithSuggestion("Check the error above for the offending field").
		WithIssue(issue.CatalogParseErrorId).
		BuildError()
}

// build validates doc and converts it into a Catalog.
func build(path string, doc *document) (*Catalog, error) {
	c := &Catalog{Path: path}
	var problems []string

	seenPlugins := make(map[plugin.Name]bool, len(doc.Plugins))
	for i, pd := range doc.Plugins {
		name := plugin.Name(strings.TrimSpace(pd.Name))
		if name == "" {
			problems = append(problems, fmt.Sprintf("plugins[%d]: name must not be empty", i))
			continue
		}
		if seenPlugins[name] {
			problems = append(problems, fmt.Sprintf("plugins[%d]: plugin %q is declared twice", i, name))
			continue
		}
		seenPlugins[name] = true

		spec := PluginSpec{Name: name, Default: normalize(pd.Default), HasDefault: pd.Default != nil}
		for _, dd := range pd.DependsOn {
			relation, err := plugin.ParseRelation(dd.Relation)
			if err != nil {
				problems = append(problems, fmt.Sprintf("plugins.%s.depends_on.%s: %v", name, dd.Name, err))
				continue
			}
			spec.DependsOn = append(spec.DependsOn, plugin.Dependency{Name: plugin.Name(dd.Name), Relation: relation})
		}
		c.Plugins = append(c.Plugins, spec)
	}

	seenTargets := make(map[string]bool, len(doc.Targets))
	for i, td := range doc.Targets {
		where := fmt.Sprintf("targets[%d]", i)
		switch {
		case strings.TrimSpace(td.Name) == "":
			problems = append(problems, where+": name must not be empty")
			continue
		case seenTargets[td.Name]:
			problems = append(problems, fmt.Sprintf("%s: target %q is declared twice", where, td.Name))
			continue
		case td.Parent != "" && !seenTargets[td.Parent]:
			problems = append(problems, fmt.Sprintf("%s: parent %q must be declared before %q", where, td.Parent, td.Name))
			continue
		}
		seenTargets[td.Name] = true

		spec := TargetSpec{Name: td.Name, Parent: td.Parent}
		for j, pass := range td.Passes {
			if len(pass) == 0 {
				problems = append(problems, fmt.Sprintf("%s.passes[%d]: a pass must request at least one plugin", where, j))
				continue
			}
			requests := make([]compose.Request, 0, len(pass))
			for _, rd := range pass {
				req := compose.Use(plugin.Name(rd.Plugin))
				for key, value := range rd.Options {
					req = req.WithOption(key, normalize(value))
				}
				if rd.Default != nil {
					req = req.WithDefault(normalize(rd.Default))
				}
				requests = append(requests, req)
			}
			spec.Passes = append(spec.Passes, requests)
		}
		c.Targets = append(c.Targets, spec)
	}

	if len(problems) > 0 {
		return nil, &InvalidCatalogError{Path: path, Problems: problems}
	}
	return c, nil
}

// Plugin returns the spec of the named plugin.
func (c *Catalog) Plugin(name plugin.Name) (PluginSpec, bool) {
	for _, p := range c.Plugins {
		if p.Name == name {
			return p, true
		}
	}
	return PluginSpec{}, false
}

// Target returns the spec of the named target.
func (c *Catalog) Target(name string) (TargetSpec, bool) {
	for _, t := range c.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return TargetSpec{}, false
}

// normalize converts decoded numbers to int64 or float64 so that CUE and
// TOML catalogs yield the same Go values.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}
