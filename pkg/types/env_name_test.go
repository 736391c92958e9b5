// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestEnvNameIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     EnvName
		wantValid bool
	}{
		{name: "simple name", value: "pcds-5.8.3", wantValid: true},
		{name: "name with underscore", value: "sxr_dev", wantValid: true},
		{name: "empty is invalid", value: "", wantValid: false},
		{name: "whitespace only is invalid", value: "   ", wantValid: false},
		{name: "embedded space is invalid", value: "my env", wantValid: false},
		{name: "forward slash is invalid", value: "envs/prod", wantValid: false},
		{name: "backslash is invalid", value: `envs\prod`, wantValid: false},
		{name: "dot is invalid", value: ".", wantValid: false},
		{name: "dotdot is invalid", value: "..", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.wantValid {
				t.Errorf("EnvName(%q).IsValid() = %v, want %v", tt.value, valid, tt.wantValid)
			}
			if !tt.wantValid {
				if len(errs) == 0 {
					t.Fatal("expected validation errors for invalid value")
				}
				if !errors.Is(errs[0], ErrInvalidEnvName) {
					t.Errorf("error does not wrap ErrInvalidEnvName: %v", errs[0])
				}
			}
		})
	}
}

func TestEnvNameString(t *testing.T) {
	t.Parallel()

	if got := EnvName("pcds-5.8.3").String(); got != "pcds-5.8.3" {
		t.Errorf("String() = %q, want %q", got, "pcds-5.8.3")
	}
}
