// SPDX-License-Identifier: MPL-2.0

// Package plugin defines capability modules: named units of behavior that
// declare dependencies on other modules and carry lifecycle hooks.
//
// Modules are immutable once built and are published through a Registry,
// which is populated at startup and then only read:
//
//	reg := plugin.NewRegistry()
//	reg.MustRegister(plugin.New("backend"))
//	reg.MustRegister(plugin.New("cache",
//		plugin.DependsOn("backend", plugin.Before),
//		plugin.WithDefault(true),
//		plugin.OnIncluded(func(ctx plugin.IncludedContext) { ... }),
//	))
//
// Composition onto a target is handled by package compose.
package plugin
