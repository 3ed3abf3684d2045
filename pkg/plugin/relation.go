// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Optional requires the dependency to be present somewhere in the target.
	// When it is missing it is composed ahead of the depending module if the
	// other constraints allow it. This is the relation of a bare declaration.
	Optional Relation = iota
	// Before requires the dependency to be composed earlier than the depending module.
	Before
	// After requires the dependency to be composed later than the depending module.
	After
	// Excluded records the dependency without ever composing it automatically.
	Excluded
)

// ErrInvalidRelation is returned when a relation string is not recognized.
var ErrInvalidRelation = errors.New("invalid dependency relation")

type (
	// Relation is the ordering constraint a dependency declaration places
	// between the declaring module and the dependency.
	Relation int

	// InvalidRelationError is returned when a relation string is not recognized.
	// It wraps ErrInvalidRelation for errors.Is() compatibility.
	InvalidRelationError struct {
		Value string
	}
)

// String returns the relation keyword.
func (r Relation) String() string {
	switch r {
	case Optional:
		return "optional"
	case Before:
		return "before"
	case After:
		return "after"
	case Excluded:
		return "excluded"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// Includes reports whether the relation pulls the dependency into a target.
func (r Relation) Includes() bool {
	return r != Excluded
}

// ParseRelation converts a declaration keyword into a Relation.
// "true" and "false" are accepted as aliases of optional and excluded.
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "optional", "true":
		return Optional, nil
	case "before":
		return Before, nil
	case "after":
		return After, nil
	case "excluded", "false":
		return Excluded, nil
	default:
		return Optional, &InvalidRelationError{Value: s}
	}
}

func (e *InvalidRelationError) Error() string {
	return fmt.Sprintf("invalid dependency relation %q (valid: optional, before, after, excluded)", e.Value)
}

func (e *InvalidRelationError) Unwrap() error {
	return ErrInvalidRelation
}
