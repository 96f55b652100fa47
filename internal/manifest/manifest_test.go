// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validForgefile = `
name = "myenv"
python = "3.10"

[[step]]
kind = "conda"
channel = "conda-forge"
packages = ["gxx_linux-64=11.2.0"]

[[step]]
kind = "pip"
packages = ["tqdm==4.66.1", "matplotlib"]
`

func TestParseValid(t *testing.T) {
	t.Parallel()

	ff, err := Parse([]byte(validForgefile), "forgefile.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if ff.Name != "myenv" {
		t.Errorf("Name = %q", ff.Name)
	}
	if ff.Python != "3.10" {
		t.Errorf("Python = %q", ff.Python)
	}
	if len(ff.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(ff.Steps))
	}
	if ff.Steps[0].Kind != StepConda || ff.Steps[0].Channel != "conda-forge" {
		t.Errorf("step[0] = %+v", ff.Steps[0])
	}
	if ff.Steps[1].Kind != StepPip || len(ff.Steps[1].Packages) != 2 {
		t.Errorf("step[1] = %+v", ff.Steps[1])
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing name",
			content: "python = \"3.10\"\n[[step]]\nkind = \"pip\"\npackages = [\"x\"]\n",
		},
		{
			name:    "bad python version shape",
			content: "name = \"e\"\npython = \"py310\"\n[[step]]\nkind = \"pip\"\npackages = [\"x\"]\n",
		},
		{
			name:    "unknown step kind",
			content: "name = \"e\"\npython = \"3.10\"\n[[step]]\nkind = \"apt\"\npackages = [\"x\"]\n",
		},
		{
			name:    "empty packages list",
			content: "name = \"e\"\npython = \"3.10\"\n[[step]]\nkind = \"pip\"\npackages = []\n",
		},
		{
			name:    "no steps",
			content: "name = \"e\"\npython = \"3.10\"\n",
		},
		{
			name:    "empty package spec",
			content: "name = \"e\"\npython = \"3.10\"\n[[step]]\nkind = \"pip\"\npackages = [\"\"]\n",
		},
		{
			name:    "whitespace in package spec",
			content: "name = \"e\"\npython = \"3.10\"\n[[step]]\nkind = \"pip\"\npackages = [\"a b\"]\n",
		},
		{
			name:    "channel on pip step",
			content: "name = \"e\"\npython = \"3.10\"\n[[step]]\nkind = \"pip\"\nchannel = \"conda-forge\"\npackages = [\"x\"]\n",
		},
		{
			name:    "toml syntax error",
			content: "name = \"e\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.content), "forgefile.toml"); err == nil {
				t.Error("Parse: expected error")
			}
		})
	}
}

func TestStepOrderPreserved(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("name = \"e\"\npython = \"3.10\"\n")
	want := []string{"alpha", "bravo", "charlie", "delta"}
	for _, p := range want {
		b.WriteString("[[step]]\nkind = \"pip\"\npackages = [\"" + p + "\"]\n")
	}

	ff, err := Parse([]byte(b.String()), "forgefile.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i, p := range want {
		if ff.Steps[i].Packages[0] != p {
			t.Errorf("step[%d] = %q, want %q", i, ff.Steps[i].Packages[0], p)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(validForgefile), 0o644); err != nil {
		t.Fatal(err)
	}

	ff, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ff.FilePath != path {
		t.Errorf("FilePath = %q, want %q", ff.FilePath, path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load: expected error for missing file")
	}
}

func TestDefaultManifest(t *testing.T) {
	t.Parallel()

	ff := Default()

	if ff.Name != "pix2poly" {
		t.Errorf("Name = %q", ff.Name)
	}
	if ff.Python != "3.10" {
		t.Errorf("Python = %q", ff.Python)
	}
	if ff.FilePath != "<builtin>" {
		t.Errorf("FilePath = %q", ff.FilePath)
	}

	// The toolchain step must come before the pip step that compiles
	// pycocotools against it.
	toolchain, pycoco := -1, -1
	for i, st := range ff.Steps {
		for _, p := range st.Packages {
			if strings.HasPrefix(p, "gxx_linux-64") {
				toolchain = i
			}
			if strings.HasPrefix(p, "pycocotools") {
				pycoco = i
			}
		}
	}
	if toolchain == -1 || pycoco == -1 {
		t.Fatalf("default manifest missing toolchain (%d) or pycocotools (%d) step", toolchain, pycoco)
	}
	if toolchain >= pycoco {
		t.Errorf("toolchain step %d not before pycocotools step %d", toolchain, pycoco)
	}

	// The two auxiliary-script extras are present.
	joined := strings.Join(flatten(ff), " ")
	if !strings.Contains(joined, "gdal") {
		t.Error("default manifest missing gdal")
	}
	if !strings.Contains(joined, "laspy") {
		t.Error("default manifest missing laspy")
	}
}

func flatten(ff *Forgefile) []string {
	var out []string
	for _, st := range ff.Steps {
		out = append(out, st.Packages...)
	}
	return out
}
