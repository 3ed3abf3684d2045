// SPDX-License-Identifier: MPL-2.0

package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewProvider_Disabled(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("NewProvider() returned error: %v", err)
	}
	if p.Enabled() {
		t.Error("disabled provider reports enabled")
	}

	_, span := p.Tracer().Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled provider produced a recording span")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() returned error: %v", err)
	}
}

// Not parallel: an enabled provider replaces the global tracer provider.
func TestNewProvider_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(Config{Enabled: true, Writer: &buf, ServiceName: "pluggable-test"})
	if err != nil {
		t.Fatalf("NewProvider() returned error: %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if !p.Enabled() {
		t.Fatal("enabled provider reports disabled")
	}

	_, span := p.Tracer().Start(context.Background(), "compose.configure")
	span.End()

	out := buf.String()
	if !strings.Contains(out, `"Name":"compose.configure"`) {
		t.Errorf("exported spans missing span name:\n%s", out)
	}
	if !strings.Contains(out, "pluggable-test") {
		t.Errorf("exported spans missing service name:\n%s", out)
	}
}
