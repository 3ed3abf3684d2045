// SPDX-License-Identifier: MPL-2.0

// Package compose attaches capability modules to composition targets in an
// order that satisfies every declared before/after constraint.
//
// A Target is built up over its lifetime by configuration passes. Each pass
// is a list of Requests handed to Composer.Configure. The Resolver computes,
// for the whole pass at once, which modules are new (requested ones plus
// their transitive dependencies) and in which order they must be appended to
// the target's history. History is append-only: a pass either commits all of
// its modules and defaults or, on failure, leaves the target untouched.
//
// Hooks are dispatched at two moments. Included hooks run when a module is
// committed to a target. Initialize hooks run for every instance constructed
// from a target, in history order:
//
//	composer := compose.NewComposer(reg)
//	post := compose.NewTarget("Post")
//	if err := composer.Configure(ctx, post, compose.Use("cache"), compose.Use("fallback").WithDefault("en")); err != nil {
//		return err
//	}
//	instance := composer.NewInstance(post, map[string]any{"locale": "de"})
//
// Target.Plugins lists composed modules most recently included first.
package compose
