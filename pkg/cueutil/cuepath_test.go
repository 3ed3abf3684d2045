// SPDX-License-Identifier: MPL-2.0

package cueutil_test

import (
	"errors"
	"testing"

	"github.com/pluggable/pluggable/pkg/cueutil"
)

func TestCUEPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    cueutil.CUEPath
		wantErr bool
	}{
		{name: "simple path", path: "plugins", wantErr: false},
		{name: "indexed path", path: "targets[0].name", wantErr: false},
		{name: "nested indices", path: "targets[0].passes[1][0].plugin", wantErr: false},
		{name: "empty string", path: "", wantErr: true},
		{name: "whitespace only", path: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("CUEPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, cueutil.ErrInvalidCUEPath) {
				t.Errorf("CUEPath(%q).Validate() error does not wrap ErrInvalidCUEPath", tt.path)
			}
			var pathErr *cueutil.InvalidCUEPathError
			if !errors.As(err, &pathErr) || pathErr.Value != tt.path {
				t.Errorf("expected InvalidCUEPathError carrying %q, got %v", tt.path, err)
			}
		})
	}
}
