// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pluggable/pluggable/pkg/cueutil"
)

type tomlDocument struct {
	Plugins []pluginDoc `toml:"plugins"`
	Targets []targetDoc `toml:"targets"`
}

// decodeTOML reads a TOML catalog:
//
//	[[plugins]]
//	name = "cache"
//	default = true
//	depends_on = [{ name = "backend", relation = "before" }]
//
//	[[targets]]
//	name = "Post"
//	passes = [[{ plugin = "cache" }]]
func decodeTOML(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	var raw tomlDocument
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &document{Plugins: raw.Plugins, Targets: raw.Targets}, nil
}
