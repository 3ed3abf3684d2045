// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pluggable/pluggable/pkg/compose"
	"github.com/pluggable/pluggable/pkg/plugin"
)

func composeBlog(t *testing.T, file string) (*Result, *compose.Composer, *EventLog) {
	t.Helper()

	c, err := Load(filepath.Join("testdata", file))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	log := &EventLog{}
	reg, err := c.Registry(log)
	if err != nil {
		t.Fatalf("Registry() returned error: %v", err)
	}
	composer := compose.NewComposer(reg)
	return c.Compose(context.Background(), composer), composer, log
}

func TestCompose_Blog(t *testing.T) {
	t.Parallel()

	for _, file := range []string{"blog.cue", "blog.toml"} {
		t.Run(file, func(t *testing.T) {
			t.Parallel()

			res, _, _ := composeBlog(t, file)
			if !res.Failed() {
				t.Error("Failed() = false, want true for the Broken target")
			}

			post, ok := res.Target("Post")
			if !ok {
				t.Fatal("Post result missing")
			}
			if post.Err != nil || post.Committed != 2 || post.FailedPass != -1 {
				t.Fatalf("Post = %+v", post)
			}
			wantHistory := []plugin.Name{"backend", "cache", "fallbacks", "presence"}
			if got := post.History(); !slices.Equal(got, wantHistory) {
				t.Errorf("Post history = %v, want %v", got, wantHistory)
			}
			if got := post.Plugins(); !slices.Equal(got, []plugin.Name{"presence", "fallbacks", "cache", "backend"}) {
				t.Errorf("Post plugins = %v", got)
			}
			wantDefaults := map[string]any{"cache": true, "fallbacks": "en"}
			if got := post.Defaults(); !maps.Equal(got, wantDefaults) {
				t.Errorf("Post defaults = %v, want %v", got, wantDefaults)
			}

			comment, _ := res.Target("Comment")
			if got := comment.History(); !slices.Equal(got, append(slices.Clone(wantHistory), "dirty")) {
				t.Errorf("Comment history = %v", got)
			}
			if comment.Parent != "Post" {
				t.Errorf("Comment parent = %q", comment.Parent)
			}
			if post.Composed().Includes("dirty") {
				t.Error("composing Comment changed Post")
			}

			broken, _ := res.Target("Broken")
			if broken.Committed != 1 || broken.FailedPass != 1 {
				t.Errorf("Broken committed=%d failed=%d, want 1 and 1", broken.Committed, broken.FailedPass)
			}
			var conflict *compose.DependencyConflictError
			if !errors.As(broken.Err, &conflict) {
				t.Fatalf("Broken error = %v, want DependencyConflictError", broken.Err)
			}
			if want := "'fallbacks' plugin must come after 'locale_accessors' plugin in Broken"; broken.Err.Error() != want {
				t.Errorf("Broken error = %q, want %q", broken.Err, want)
			}
			if got := broken.History(); !slices.Equal(got, []plugin.Name{"backend", "fallbacks"}) {
				t.Errorf("Broken history = %v, want the first pass only", got)
			}
		})
	}
}

func TestCompose_RecordsHookEvents(t *testing.T) {
	t.Parallel()

	res, composer, log := composeBlog(t, "blog.cue")

	included := func(target string) []plugin.Name {
		var names []plugin.Name
		for _, e := range log.Filter(EventIncluded, target) {
			names = append(names, e.Plugin)
		}
		return names
	}
	if got := included("Post"); !slices.Equal(got, []plugin.Name{"backend", "cache", "fallbacks", "presence"}) {
		t.Errorf("Post included events = %v", got)
	}
	// Inherited plugins were included on the parent, not again on the child.
	if got := included("Comment"); !slices.Equal(got, []plugin.Name{"dirty"}) {
		t.Errorf("Comment included events = %v, want [dirty]", got)
	}

	post, _ := res.Target("Post")
	instance := composer.NewInstance(post.Composed(), map[string]any{"locale": "de"})

	initialized := log.Filter(EventInitialize, "Post")
	if len(initialized) != 4 {
		t.Fatalf("expected 4 initialize events, got %d", len(initialized))
	}
	for _, e := range initialized {
		if e.Instance != instance.ID() {
			t.Errorf("event for %s carries instance %s, want %s", e.Plugin, e.Instance, instance.ID())
		}
		if e.Values["locale"] != "de" || e.Values["fallbacks"] != "en" {
			t.Errorf("event for %s carries options %v", e.Plugin, e.Values)
		}
	}
}

func TestRegistry_WithoutEventLog(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("testdata", "blog.toml"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	reg, err := c.Registry(nil)
	if err != nil {
		t.Fatalf("Registry() returned error: %v", err)
	}
	if reg.Len() != len(c.Plugins) {
		t.Errorf("registry has %d plugins, want %d", reg.Len(), len(c.Plugins))
	}
	cache, err := reg.Lookup("cache")
	if err != nil {
		t.Fatalf("Lookup(cache) returned error: %v", err)
	}
	if len(cache.IncludedHooks()) != 0 {
		t.Error("hooks registered without an event log")
	}
	if v, ok := cache.Default(); !ok || v != true {
		t.Errorf("cache default = %v, %v", v, ok)
	}
}
