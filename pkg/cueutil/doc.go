// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against embedded schemas.
//
// Both the plugin catalog and the CLI configuration are CUE files checked
// against a definition compiled into the binary:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed catalog_schema.cue
//	var catalogSchema []byte
//
//	result, err := cueutil.ParseFile[File](catalogSchema, "plugins.cue", "#Catalog")
//	if err != nil {
//	    return nil, err // error carries the CUE path of the offending value
//	}
//	return result.Value, nil
package cueutil
