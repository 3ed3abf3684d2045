// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"github.com/pluggable/pluggable/pkg/plugin"
)

// DefaultOption is the request option whose value becomes the target default
// stored under the plugin's name.
const DefaultOption = "default"

// Request asks for one plugin to be composed onto a target.
type Request struct {
	Name    plugin.Name
	Options map[string]any
}

// Use creates a request without options.
func Use(name plugin.Name) Request {
	return Request{Name: name}
}

// WithOption returns a copy of the request with one option set.
func (r Request) WithOption(key string, value any) Request {
	options := plugin.CloneOptions(r.Options)
	options[key] = value
	r.Options = options
	return r
}

// WithDefault returns a copy of the request that sets the plugin's default.
func (r Request) WithDefault(value any) Request {
	return r.WithOption(DefaultOption, value)
}

// Default returns the requested default value, if any.
func (r Request) Default() (any, bool) {
	v, ok := r.Options[DefaultOption]
	return v, ok
}
