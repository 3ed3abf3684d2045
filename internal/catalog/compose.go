// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pluggable/pluggable/pkg/compose"
	"github.com/pluggable/pluggable/pkg/plugin"
)

// SpanTarget is the span wrapping every configuration pass of one target.
const SpanTarget = "catalog.target"

type (
	// TargetResult is the outcome of composing one target.
	TargetResult struct {
		Name   string
		Parent string
		// Committed counts the passes that succeeded.
		Committed int
		// FailedPass is the index of the failing pass, or -1.
		FailedPass int
		Err        error

		target *compose.Target
	}

	// Result holds the outcome of every target in declaration order.
	Result struct {
		Targets []*TargetResult
	}
)

// Compose builds every target of the catalog with composer. Each target is
// derived from its parent's final state when it has one. A failing pass
// stops its own target; the remaining targets still run.
func (c *Catalog) Compose(ctx context.Context, composer *compose.Composer) *Result {
	tracer := otel.Tracer("github.com/pluggable/pluggable/internal/catalog")
	res := &Result{}
	built := make(map[string]*compose.Target, len(c.Targets))

	for _, decl := range c.Targets {
		var t *compose.Target
		if parent, ok := built[decl.Parent]; ok {
			t = parent.Derive(decl.Name)
		} else {
			t = compose.NewTarget(decl.Name)
		}
		built[decl.Name] = t

		tctx, span := tracer.Start(ctx, SpanTarget, trace.WithAttributes(
			attribute.String("catalog.target", decl.Name),
			attribute.Int("catalog.passes", len(decl.Passes)),
		))
		tr := &TargetResult{Name: decl.Name, Parent: decl.Parent, FailedPass: -1, target: t}
		for i, pass := range decl.Passes {
			if err := composer.Configure(tctx, t, pass...); err != nil {
				slog.Debug("pass failed", "target", decl.Name, "pass", i, "error", err)
				tr.FailedPass = i
				tr.Err = err
				span.SetStatus(codes.Error, err.Error())
				break
			}
			tr.Committed++
		}
		span.End()
		res.Targets = append(res.Targets, tr)
	}
	return res
}

// Failed reports whether any target has a failing pass.
func (r *Result) Failed() bool {
	for _, t := range r.Targets {
		if t.Err != nil {
			return true
		}
	}
	return false
}

// Target returns the result for the named target.
func (r *Result) Target(name string) (*TargetResult, bool) {
	for _, t := range r.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Composed returns the composed target.
func (t *TargetResult) Composed() *compose.Target {
	return t.target
}

// Plugins returns the composed plugins, most recently included first.
func (t *TargetResult) Plugins() []plugin.Name {
	return t.target.Plugins()
}

// History returns the composed plugin names in inclusion order.
func (t *TargetResult) History() []plugin.Name {
	history := t.target.History()
	names := make([]plugin.Name, len(history))
	for i, m := range history {
		names[i] = m.Name()
	}
	return names
}

// Defaults returns the target defaults.
func (t *TargetResult) Defaults() map[string]any {
	return t.target.Defaults()
}
