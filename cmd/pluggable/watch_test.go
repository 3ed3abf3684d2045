// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pluggable/pluggable/internal/testutil"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a watching
// command and the reads of the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestResolve_WatchReresolvesOnChange(t *testing.T) {
	path := writeBlogCatalog(t)

	var stdout, stderr syncBuffer
	app := NewApp(Dependencies{Config: defaults(), Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SilenceUsage = true
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"resolve", path, "--target", "Post", "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	testutil.Eventually(t, "watch banner", 0, func() bool { return strings.Contains(stderr.String(), "Watching") })
	if strings.Count(stdout.String(), "Post") != 1 {
		t.Fatalf("expected one initial resolution, got:\n%s", stdout.String())
	}

	updated := strings.Replace(blogCatalog, "dirty: {}", "dirty: {}\n\tsearch: {}", 1)
	testutil.MustWriteFile(t, path, updated)
	testutil.Eventually(t, "second resolution", 0, func() bool { return strings.Contains(stdout.String(), "changed") })
	testutil.Eventually(t, "second resolution output", 0, func() bool { return strings.Count(stdout.String(), "Post") >= 2 })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("resolve --watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("resolve --watch did not stop after cancellation")
	}
}
