// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"context"
	"slices"
	"testing"

	"github.com/pluggable/pluggable/pkg/plugin"
)

func TestTarget_PluginsMostRecentFirst(t *testing.T) {
	t.Parallel()

	c := NewComposer(newTestRegistry(t, plugin.New("foo"), plugin.New("bar"), plugin.New("baz")))
	target := NewTarget("Post")

	for _, name := range []plugin.Name{"foo", "bar", "baz"} {
		if err := configure(t, c, target, name); err != nil {
			t.Fatalf("Configure(%s) returned error: %v", name, err)
		}
	}

	if got := target.Plugins(); !slices.Equal(got, []plugin.Name{"baz", "bar", "foo"}) {
		t.Errorf("Plugins() = %v, want [baz bar foo]", got)
	}
	if got := historyNames(target); !slices.Equal(got, []plugin.Name{"foo", "bar", "baz"}) {
		t.Errorf("history = %v, want [foo bar baz]", got)
	}
}

func TestTarget_DeriveCopiesDefaultsByValue(t *testing.T) {
	t.Parallel()

	parent := NewTarget("Base")
	parent.SetDefault("fallback", "en")

	child := parent.Derive("Post")
	child.SetDefault("fallback", "de")
	parent.SetDefault("cache", true)

	if v, _ := parent.Default("fallback"); v != "en" {
		t.Errorf("parent fallback = %v, want en", v)
	}
	if _, ok := child.Default("cache"); ok {
		t.Error("child saw a default set on the parent after derivation")
	}
	if child.Name() != "Post" {
		t.Errorf("child name = %q, want Post", child.Name())
	}
}

func TestTarget_DeriveSnapshotsHistory(t *testing.T) {
	t.Parallel()

	c := NewComposer(newTestRegistry(t,
		plugin.New("foo"),
		plugin.New("bar"),
		plugin.New("late", plugin.DependsOn("foo", plugin.After)),
	))
	parent := NewTarget("Base")
	if err := configure(t, c, parent, "foo"); err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}

	child := parent.Derive("Post")
	if err := configure(t, c, child, "bar"); err != nil {
		t.Fatalf("Configure(child) returned error: %v", err)
	}

	if got := child.Plugins(); !slices.Equal(got, []plugin.Name{"bar", "foo"}) {
		t.Errorf("child Plugins() = %v, want [bar foo]", got)
	}
	if parent.Includes("bar") {
		t.Error("composing the child changed the parent")
	}
	if err := configure(t, c, child, "late"); err == nil {
		t.Error("expected conflict with inherited foo")
	}
}

func TestTarget_DeriveInheritsAttacher(t *testing.T) {
	t.Parallel()

	var attached []string
	attacher := WithAttacher(func(target *Target, m *plugin.Module) {
		attached = append(attached, target.Name()+":"+string(m.Name()))
	})
	c := NewComposer(newTestRegistry(t, plugin.New("foo")))
	child := NewTarget("Base", attacher).Derive("Post")

	if err := c.Configure(context.Background(), child, Use("foo")); err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}
	if !slices.Equal(attached, []string{"Post:foo"}) {
		t.Errorf("attached = %v, want [Post:foo]", attached)
	}
}

func TestTarget_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	c := NewComposer(newTestRegistry(t, plugin.New("foo")))
	target := NewTarget("")
	if err := c.Configure(context.Background(), target, Use("foo").WithDefault(1)); err != nil {
		t.Fatalf("Configure() returned error: %v", err)
	}

	defaults := target.Defaults()
	defaults["foo"] = 99
	history := target.History()
	history[0] = nil

	if v, _ := target.Default("foo"); v != 1 {
		t.Error("mutating Defaults() result changed the target")
	}
	if target.History()[0] == nil {
		t.Error("mutating History() result changed the target")
	}
}

func TestRequest_WithOptionDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := Use("foo").WithOption("fallbacks", true)
	withDefault := base.WithDefault("en")

	if _, ok := base.Default(); ok {
		t.Error("WithDefault mutated the original request")
	}
	if v, ok := withDefault.Default(); !ok || v != "en" {
		t.Errorf("Default() = %v, %v; want en, true", v, ok)
	}
	if withDefault.Options["fallbacks"] != true {
		t.Error("WithDefault dropped existing options")
	}
}
