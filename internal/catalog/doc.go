// SPDX-License-Identifier: MPL-2.0

// Package catalog loads declarative plugin catalogs and composes their targets.
//
// A catalog declares plugins with their dependencies and default values, and
// targets as a list of configuration passes. CUE catalogs are checked against
// the embedded #Catalog schema; TOML catalogs carry the same information with
// dependencies written as arrays to keep their declaration order.
package catalog
