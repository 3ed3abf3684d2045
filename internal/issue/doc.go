// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions; Issue pages are longer Markdown explanations rendered with
// glamour and linked from an ActionableError by Id.
package issue
