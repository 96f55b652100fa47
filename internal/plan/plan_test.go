// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"path/filepath"
	"strings"
	"testing"

	"envforge-cli/internal/conda"
	"envforge-cli/internal/manifest"
)

func testManifest() *manifest.Forgefile {
	return &manifest.Forgefile{
		Name:   "demo",
		Python: "3.10",
		Steps: []manifest.Step{
			{Kind: manifest.StepConda, Channel: "conda-forge", Packages: []string{"gxx_linux-64=11.2.0"}},
			{Kind: manifest.StepPip, Packages: []string{"tqdm==4.66.1", "matplotlib"}},
			{Kind: manifest.StepConda, Packages: []string{"numpy=1.26.0"}},
		},
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	inst := &conda.Installation{Root: "/opt/conda"}
	p := Compile(testManifest(), inst, Options{})

	if len(p.Commands) != 4 {
		t.Fatalf("len(Commands) = %d, want 4 (create + 3 steps)", len(p.Commands))
	}

	create := p.Commands[0].Argv
	wantCreate := []string{
		filepath.Join("/opt/conda", "bin", "conda"),
		"create", "-n", "demo", "python=3.10", "-y",
	}
	if strings.Join(create, " ") != strings.Join(wantCreate, " ") {
		t.Errorf("create argv = %v, want %v", create, wantCreate)
	}

	channeled := p.Commands[1].Argv
	if !contains(channeled, "-c") || !contains(channeled, "conda-forge") {
		t.Errorf("channeled conda argv missing -c conda-forge: %v", channeled)
	}

	pip := p.Commands[2].Argv
	wantPip := filepath.Join("/opt/conda", "envs", "demo", "bin", "pip")
	if pip[0] != wantPip {
		t.Errorf("pip argv[0] = %q, want env-local pip %q", pip[0], wantPip)
	}
	if pip[len(pip)-1] != "matplotlib" {
		t.Errorf("pip argv = %v, unpinned package missing", pip)
	}

	plain := p.Commands[3].Argv
	if contains(plain, "-c") {
		t.Errorf("unchanneled conda argv has -c: %v", plain)
	}

	// Activation stand-in: env bin dir first, then the installation's.
	if len(p.BinDirs) != 2 || !strings.HasSuffix(p.BinDirs[0], filepath.Join("envs", "demo", "bin")) {
		t.Errorf("BinDirs = %v", p.BinDirs)
	}
}

func TestCompileSkipCreate(t *testing.T) {
	t.Parallel()

	inst := &conda.Installation{Root: "/opt/conda"}
	p := Compile(testManifest(), inst, Options{SkipCreate: true})

	if len(p.Commands) != 3 {
		t.Fatalf("len(Commands) = %d, want 3", len(p.Commands))
	}
	for _, cmd := range p.Commands {
		if contains(cmd.Argv, "create") {
			t.Errorf("create command present despite SkipCreate: %v", cmd.Argv)
		}
	}
}

func TestCompileOrderMatchesManifest(t *testing.T) {
	t.Parallel()

	ff := &manifest.Forgefile{
		Name:   "ordered",
		Python: "3.10",
		Steps: []manifest.Step{
			{Kind: manifest.StepPip, Packages: []string{"first"}},
			{Kind: manifest.StepPip, Packages: []string{"second"}},
			{Kind: manifest.StepPip, Packages: []string{"third"}},
		},
	}
	p := Compile(ff, &conda.Installation{Root: "/opt/conda"}, Options{SkipCreate: true})

	for i, want := range []string{"first", "second", "third"} {
		argv := p.Commands[i].Argv
		if argv[len(argv)-1] != want {
			t.Errorf("command %d installs %q, want %q", i, argv[len(argv)-1], want)
		}
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
