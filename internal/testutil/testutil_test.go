// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := MustWriteFile(t, filepath.Join(t.TempDir(), "a", "b", "blog.cue"), "plugins: {}")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}
	if string(data) != "plugins: {}" {
		t.Errorf("content = %q", data)
	}
}

func TestEventually(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	Eventually(t, "third poll", time.Second, func() bool {
		return calls.Add(1) >= 3
	})
	if calls.Load() != 3 {
		t.Errorf("cond called %d times, want 3", calls.Load())
	}
}
