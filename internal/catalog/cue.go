// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	_ "embed"
	"fmt"
	"strconv"

	"cuelang.org/go/cue"

	"github.com/pluggable/pluggable/pkg/cueutil"
)

//go:embed catalog_schema.cue
var catalogSchema []byte

type cueDocument struct {
	Targets []targetDoc `json:"targets,omitempty"`
}

// decodeCUE reads a CUE catalog. Targets decode directly; plugins are walked
// on the unified value because Go maps would lose declaration order.
func decodeCUE(path string) (*document, error) {
	result, err := cueutil.ParseFile[cueDocument](catalogSchema, path, "#Catalog")
	if err != nil {
		return nil, err
	}

	doc := &document{Targets: result.Value.Targets}

	plugins, err := result.Unified.LookupPath(cue.ParsePath("plugins")).Fields()
	if err != nil {
		return nil, cueutil.FormatError(err, path)
	}
	for plugins.Next() {
		pd, err := decodePlugin(plugins.Selector().Unquoted(), plugins.Value())
		if err != nil {
			return nil, cueutil.FormatError(err, path)
		}
		doc.Plugins = append(doc.Plugins, pd)
	}
	return doc, nil
}

func decodePlugin(name string, v cue.Value) (pluginDoc, error) {
	pd := pluginDoc{Name: name}

	if deps := v.LookupPath(cue.ParsePath("depends_on")); deps.Exists() {
		iter, err := deps.Fields()
		if err != nil {
			return pd, err
		}
		for iter.Next() {
			relation, err := relationString(iter.Value())
			if err != nil {
				return pd, err
			}
			pd.DependsOn = append(pd.DependsOn, dependencyDoc{
				Name:     iter.Selector().Unquoted(),
				Relation: relation,
			})
		}
	}

	if def := v.LookupPath(cue.ParsePath("default")); def.Exists() {
		if err := def.Decode(&pd.Default); err != nil {
			return pd, err
		}
	}
	return pd, nil
}

// relationString accepts both relation keywords and booleans.
func relationString(v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		return strconv.FormatBool(b), err
	case cue.StringKind:
		return v.String()
	default:
		return "", fmt.Errorf("relation must be a string or bool, got %s", v.Kind())
	}
}
