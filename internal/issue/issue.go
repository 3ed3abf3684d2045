// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CatalogNotFoundId Id = iota + 1
	CatalogParseErrorId
	UnknownPluginId
	DuplicatePluginId
	InvalidRelationId
	DependencyCycleId
	DependencyConflictId
	TargetNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the issue text followed by its links.
func (i *Issue) Markdown() string {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return md.String()
}

// Render renders the issue with glamour using the given style
// ("dark", "light", "notty", "auto" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	catalogNotFoundIssue = &Issue{
		id: CatalogNotFoundId,
		mdMsg: `
# No plugin catalog found!

pluggable reads plugin declarations and targets from a catalog file.

## Where the catalog is looked up:
1. The path given as the first argument
2. The ` + "`catalog`" + ` setting in your config file
3. ` + "`catalog.cue`" + ` in the current directory

## Things you can try:
- Pass the catalog explicitly:
~~~
$ pluggable resolve ./plugins.cue
~~~

- Point the config at it:
~~~cue
catalog: "/path/to/plugins.cue"
~~~`,
		docLinks: []HttpLink{"https://github.com/pluggable/pluggable#catalog-files"},
	}

	catalogParseErrorIssue = &Issue{
		id: CatalogParseErrorId,
		mdMsg: `
# Failed to parse the plugin catalog!

The catalog contains syntax errors or does not match the catalog schema.

## Common issues:
- A relation other than "before", "after", "optional" or "excluded"
- A plugin name that is not a lowercase identifier
- A target parent that is declared after the target using it
- A pass that is empty

## Example of a valid catalog:
~~~cue
plugins: {
  backend: {}
  cache: {
    depends_on: backend: "before"
    default: true
  }
  fallbacks: depends_on: cache: "after"
}

targets: [
  {
    name: "Post"
    passes: [[{plugin: "cache"}], [{plugin: "fallbacks", default: "en"}]]
  },
]
~~~`,
		docLinks: []HttpLink{"https://github.com/pluggable/pluggable#catalog-files"},
		extLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	unknownPluginIssue = &Issue{
		id: UnknownPluginId,
		mdMsg: `
# Unknown plugin!

A pass requested a plugin, or a plugin declared a dependency, that is not
declared in the catalog.

## Things you can try:
- List the declared plugins:
~~~
$ pluggable plugins
~~~

- Check for typos in ` + "`depends_on`" + ` keys and pass entries
- Mark dependencies that should never be pulled in as "excluded"`,
	}

	duplicatePluginIssue = &Issue{
		id: DuplicatePluginId,
		mdMsg: `
# Plugin declared twice!

Each plugin name can be registered only once.

## Things you can try:
- Remove or rename one of the declarations
- Merge the dependency declarations into a single plugin entry`,
	}

	invalidRelationIssue = &Issue{
		id: InvalidRelationId,
		mdMsg: `
# Invalid dependency relation!

Dependencies accept exactly one of these relations:

| relation   | meaning                                              |
|------------|------------------------------------------------------|
| before     | the dependency is included earlier than the plugin   |
| after      | the dependency is included later than the plugin     |
| optional   | the dependency is included, order is a preference    |
| excluded   | the dependency is never pulled in                    |`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependencies cannot be resolved!

The plugins named in the error require each other to come earlier (or later),
so no order satisfies them.

## Things you can try:
- Relax one of the constraints to "optional"
- Split the plugins into separate passes if they only need a one-way order
- Inspect the declared order with:
~~~
$ pluggable resolve --format markdown
~~~`,
	}

	dependencyConflictIssue = &Issue{
		id: DependencyConflictId,
		mdMsg: `
# Dependency must come after a plugin that is already included!

A plugin declares an "after" dependency on a plugin that an earlier pass
has already composed onto the target. History is append-only, so the order
cannot be satisfied.

## Things you can try:
- Request both plugins in the same pass
- Request the plugin with the "after" dependency in an earlier pass
- Change the relation to "optional" if the order is only a preference`,
	}

	targetNotFoundIssue = &Issue{
		id: TargetNotFoundId,
		mdMsg: `
# Target not found!

The catalog has no target with the requested name.

## Things you can try:
- Resolve every target to see their names:
~~~
$ pluggable resolve
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The pluggable configuration file could not be read or is invalid.

## Things you can try:
- Check ` + "`~/.config/pluggable/config.cue`" + ` for syntax errors
- Print the effective configuration:
~~~
$ pluggable config show
~~~

- Start from a minimal configuration:
~~~cue
log_level: "info"
catalog:   "catalog.cue"
~~~`,
	}

	issues = map[Id]*Issue{
		catalogNotFoundIssue.Id():    catalogNotFoundIssue,
		catalogParseErrorIssue.Id():  catalogParseErrorIssue,
		unknownPluginIssue.Id():      unknownPluginIssue,
		duplicatePluginIssue.Id():    duplicatePluginIssue,
		invalidRelationIssue.Id():    invalidRelationIssue,
		dependencyCycleIssue.Id():    dependencyCycleIssue,
		dependencyConflictIssue.Id(): dependencyConflictIssue,
		targetNotFoundIssue.Id():     targetNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
