// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pluggable/pluggable/pkg/plugin"
)

// tracerName is the instrumentation scope of spans emitted by this package.
const tracerName = "github.com/pluggable/pluggable/pkg/compose"

// Span names and attribute keys for configuration passes.
const (
	SpanConfigure = "compose.configure"

	AttrTarget    = "compose.target"
	AttrRequests  = "compose.requests"
	AttrCommitted = "compose.committed"
)

type (
	// Composer runs configuration passes against targets.
	Composer struct {
		registry   *plugin.Registry
		resolver   *Resolver
		dispatcher *Dispatcher
		logger     *slog.Logger
		tracer     trace.Tracer
	}

	// ComposerOption configures a Composer.
	ComposerOption func(*Composer)
)

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(logger *slog.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for pass spans.
func WithTracer(tracer trace.Tracer) ComposerOption {
	return func(c *Composer) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewComposer creates a Composer that resolves plugins from reg.
func NewComposer(reg *plugin.Registry, opts ...ComposerOption) *Composer {
	c := &Composer{
		registry: reg,
		resolver: NewResolver(reg),
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dispatcher = NewDispatcher(c.logger)
	return c
}

// Resolver returns the resolver used by the composer.
func (c *Composer) Resolver() *Resolver {
	return c.resolver
}

// Configure runs one configuration pass. Requests are looked up and their
// default options staged in order; then all requested plugins are resolved
// together and committed. If anything fails, t is left exactly as it was.
//
// Requesting a plugin that is already composed does not change the history
// but still applies its default option.
func (c *Composer) Configure(ctx context.Context, t *Target, requests ...Request) (err error) {
	_, span := c.tracer.Start(ctx, SpanConfigure, trace.WithAttributes(
		attribute.String(AttrTarget, t.Name()),
		attribute.Int(AttrRequests, len(requests)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	staged := t.Defaults()
	names := make([]plugin.Name, 0, len(requests))
	for _, req := range requests {
		if _, err := c.registry.Lookup(req.Name); err != nil {
			c.logger.Debug("configuration pass aborted", "target", t.Name(), "error", err)
			return err
		}
		if value, ok := req.Default(); ok {
			staged[string(req.Name)] = value
		}
		names = append(names, req.Name)
	}

	modules, err := c.resolver.ResolveAll(t, names)
	if err != nil {
		c.logger.Debug("configuration pass aborted", "target", t.Name(), "error", err)
		return err
	}

	for _, m := range modules {
		value, ok := m.Default()
		if !ok {
			continue
		}
		if _, set := staged[string(m.Name())]; !set {
			staged[string(m.Name())] = value
		}
	}

	t.commit(staged, modules, func(m *plugin.Module) {
		c.logger.Debug("plugin included", "target", t.Name(), "plugin", m.Name())
		c.dispatcher.Included(t, m)
	})
	span.SetAttributes(attribute.Int(AttrCommitted, len(modules)))
	return nil
}

// NewInstance constructs an instance of t and runs its initialize hooks.
func (c *Composer) NewInstance(t *Target, options map[string]any) *Instance {
	return c.dispatcher.OnInstanceCreated(t, options)
}
