// SPDX-License-Identifier: MPL-2.0

// Package tracing configures OpenTelemetry for the CLI. Every configuration
// pass is a span; with tracing enabled the spans are printed as JSON.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceName identifies the CLI in exported spans.
const DefaultServiceName = "pluggable"

type (
	// Config configures the tracing subsystem.
	Config struct {
		// Enabled controls whether tracing is active. When false, a no-op
		// tracer is returned.
		Enabled bool
		// Writer receives the exported spans. Nil disables export but keeps
		// span recording.
		Writer io.Writer
		// PrettyPrint indents the exported JSON.
		PrettyPrint bool
		// ServiceName defaults to DefaultServiceName.
		ServiceName string
	}

	// Provider manages the OpenTelemetry tracer provider.
	Provider struct {
		provider *sdktrace.TracerProvider
		tracer   trace.Tracer
		enabled  bool
	}
)

// NewProvider creates the trace provider and installs it as the global one.
// If tracing is disabled, a no-op provider is returned and the global
// provider is left alone.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	}

	if cfg.Writer != nil {
		exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(cfg.Writer)}
		if cfg.PrettyPrint {
			exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
		}
		exporter, err := stdouttrace.New(exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		// Spans are written as they end; a CLI run is short.
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer. It is safe to use when tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled returns whether tracing is enabled.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and shuts down the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
