// SPDX-License-Identifier: MPL-2.0

package cueval

import (
	"strings"
	"testing"
)

const testSchema = `
#Pin: {
	name:    string & !=""
	version: string
}
`

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{
			name:  "valid value",
			value: map[string]any{"name": "torch", "version": "2.0.1"},
		},
		{
			name:    "empty name rejected",
			value:   map[string]any{"name": "", "version": "2.0.1"},
			wantErr: "name",
		},
		{
			name:    "wrong type rejected",
			value:   map[string]any{"name": "torch", "version": 2},
			wantErr: "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateValue(testSchema, tt.value, "#Pin", "pin.toml")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateValue: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateValue: expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), "pin.toml") {
				t.Errorf("error %q does not mention the filename", err)
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	type pin struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	got, err := DecodeFile[pin](testSchema, []byte(`name: "gdal", version: "3.8.0"`), "#Pin", "pin.cue")
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if got.Name != "gdal" || got.Version != "3.8.0" {
		t.Errorf("decoded = %+v", got)
	}

	if _, err := DecodeFile[pin](testSchema, []byte(`name: 42`), "#Pin", "pin.cue"); err == nil {
		t.Error("DecodeFile: expected error for type mismatch")
	}
}

func TestCheckInputSize(t *testing.T) {
	t.Parallel()

	if err := CheckInputSize(make([]byte, 128), "small.toml"); err != nil {
		t.Errorf("CheckInputSize small: %v", err)
	}
	if err := CheckInputSize(make([]byte, MaxInputSize+1), "big.toml"); err == nil {
		t.Error("CheckInputSize: expected error for oversized input")
	}
}
