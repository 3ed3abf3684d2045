// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pluggable/pluggable/internal/config"
	"github.com/pluggable/pluggable/internal/issue"
	"github.com/pluggable/pluggable/internal/testutil"
)

// The CLI tests are not parallel: the root command installs the process-wide
// slog default.

const blogCatalog = `plugins: {
	backend: {}
	cache: {
		depends_on: backend: "before"
		default: true
	}
	dirty: {}
	presence: depends_on: backend: true
	fallbacks: depends_on: {
		backend: "before"
		dirty:   "excluded"
	}
	locale_accessors: depends_on: fallbacks: "after"
}

targets: [
	{
		name: "Post"
		passes: [
			[{plugin: "cache"}],
			[{plugin: "fallbacks", default: "en"}, {plugin: "presence"}],
		]
	},
	{
		name:   "Comment"
		parent: "Post"
		passes: [[{plugin: "dirty"}]]
	},
	{
		name: "Broken"
		passes: [
			[{plugin: "fallbacks"}],
			[{plugin: "locale_accessors"}],
		]
	},
]
`

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func writeBlogCatalog(t *testing.T) string {
	t.Helper()

	return testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "blog.cue"), blogCatalog)
}

func runCLI(t *testing.T, provider ConfigProvider, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	root := NewRootCommand(app)
	root.SilenceUsage = true
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func defaults() staticConfig {
	return staticConfig{cfg: config.DefaultConfig()}
}

func assertExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != code {
		t.Errorf("exit code = %d, want %d", exitErr.Code, code)
	}
}

func TestResolve_Text(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, stderr, err := runCLI(t, defaults(), "resolve", catalog)
	assertExitCode(t, err, 1)

	for _, want := range []string{
		"Post\n",
		"plugins:   presence fallbacks cache backend",
		"order:     backend → cache → fallbacks → presence",
		"defaults:  cache=true fallbacks=en",
		"included:  backend cache fallbacks presence",
		"Comment (from Post)",
		"plugins:   dirty presence fallbacks cache backend",
		"included:  dirty\n",
		"✗ pass 2 failed",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	if !strings.Contains(stderr, "'fallbacks' plugin must come after 'locale_accessors' plugin in Broken") {
		t.Errorf("stderr missing conflict message:\n%s", stderr)
	}
}

func TestResolve_SingleTarget(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, _, err := runCLI(t, defaults(), "resolve", catalog, "--target", "Comment")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if !strings.Contains(stdout, "Comment (from Post)") {
		t.Errorf("stdout missing Comment:\n%s", stdout)
	}
	if strings.Contains(stdout, "Broken") {
		t.Errorf("stdout reports unselected target:\n%s", stdout)
	}
}

func TestResolve_UnknownTarget(t *testing.T) {
	catalog := writeBlogCatalog(t)

	_, _, err := runCLI(t, defaults(), "resolve", catalog, "--target", "Ghost")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
	if got := issueFor(err); got != issue.TargetNotFoundId {
		t.Errorf("issueFor() = %d, want TargetNotFoundId", got)
	}
	if !strings.Contains(err.Error(), "Post, Comment, Broken") {
		t.Errorf("error does not list declared targets: %v", err)
	}
}

func TestResolve_UsesConfiguredCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog = config.CatalogPath(writeBlogCatalog(t))

	stdout, _, err := runCLI(t, staticConfig{cfg: cfg}, "resolve", "--target", "Post")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if !strings.Contains(stdout, "order:     backend → cache → fallbacks → presence") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestResolve_Markdown(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, _, err := runCLI(t, defaults(), "resolve", catalog, "--target", "Post", "--format", "markdown")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	for _, want := range []string{"backend", "presence", "Composition"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("markdown output missing %q:\n%s", want, stdout)
		}
	}
}

func TestResolve_InvalidFormat(t *testing.T) {
	catalog := writeBlogCatalog(t)

	_, _, err := runCLI(t, defaults(), "resolve", catalog, "--format", "yaml")
	if !errors.Is(err, config.ErrInvalidOutputFormat) {
		t.Fatalf("expected ErrInvalidOutputFormat, got %v", err)
	}
}

func TestResolve_VerboseRendersIssuePage(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, stderr, err := runCLI(t, defaults(), "resolve", catalog, "--verbose")
	assertExitCode(t, err, 1)

	if !strings.Contains(stderr, "Request both plugins in the same pass") {
		t.Errorf("verbose stderr lacks the dependency conflict page:\n%s", stderr)
	}
	if !strings.Contains(stdout, "2 pass(es) committed") {
		t.Errorf("verbose stdout lacks pass count:\n%s", stdout)
	}
}

func TestResolve_MissingCatalog(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.cue")

	_, _, err := runCLI(t, defaults(), "resolve", missing)
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
	if got := issueFor(err); got != issue.CatalogNotFoundId {
		t.Errorf("issueFor() = %d, want CatalogNotFoundId", got)
	}
}

func TestPlugins_Text(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, _, err := runCLI(t, defaults(), "plugins", catalog)
	if err != nil {
		t.Fatalf("plugins returned error: %v", err)
	}
	for _, want := range []string{
		"Plugins in " + catalog,
		"before backend",
		"default=true",
		"before backend, excluded dirty",
		"after fallbacks",
		"optional backend",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestPlugins_Markdown(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, _, err := runCLI(t, defaults(), "plugins", catalog, "-f", "markdown")
	if err != nil {
		t.Fatalf("plugins returned error: %v", err)
	}
	if !strings.Contains(stdout, "locale_accessors") {
		t.Errorf("markdown output missing plugin:\n%s", stdout)
	}
}

func TestInstantiate(t *testing.T) {
	catalog := writeBlogCatalog(t)

	stdout, _, err := runCLI(t, defaults(), "instantiate", catalog,
		"--target", "Post", "--set", "fallbacks=de", "--set", "locale=fr")
	if err != nil {
		t.Fatalf("instantiate returned error: %v", err)
	}
	for _, want := range []string{
		"Post instance ",
		"initialize:  backend cache fallbacks presence",
		"options:     cache=true fallbacks=de locale=fr",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestInstantiate_FailedTarget(t *testing.T) {
	catalog := writeBlogCatalog(t)

	_, stderr, err := runCLI(t, defaults(), "instantiate", catalog, "--target", "Broken")
	assertExitCode(t, err, 1)
	if !strings.Contains(stderr, "must come after") {
		t.Errorf("stderr missing failure:\n%s", stderr)
	}
}

func TestInstantiate_RequiresTarget(t *testing.T) {
	catalog := writeBlogCatalog(t)

	if _, _, err := runCLI(t, defaults(), "instantiate", catalog); err == nil {
		t.Fatal("expected error without --target")
	}
}

func TestConfigLoadFailureFallsBackToDefaults(t *testing.T) {
	catalog := writeBlogCatalog(t)
	broken := staticConfig{err: errors.New("config.cue: log_level: conflicting values")}

	stdout, stderr, err := runCLI(t, broken, "plugins", catalog)
	if err != nil {
		t.Fatalf("plugins returned error: %v", err)
	}
	if !strings.Contains(stderr, "Warning: ") || !strings.Contains(stderr, "conflicting values") {
		t.Errorf("stderr missing config warning:\n%s", stderr)
	}
	if !strings.Contains(stdout, "cache") {
		t.Errorf("command did not run with defaults:\n%s", stdout)
	}
}

func TestResolve_TracePrintsSpans(t *testing.T) {
	catalog := writeBlogCatalog(t)

	_, stderr, err := runCLI(t, defaults(), "resolve", catalog, "--target", "Post", "--trace")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	for _, want := range []string{"compose.configure", "catalog.target", "compose.committed"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("trace output missing %q:\n%s", want, stderr)
		}
	}
}
