// SPDX-License-Identifier: MPL-2.0

// Integration test that provisions a real conda environment inside a
// container. Requires a local Docker provider; skipped in -short mode.
package runner

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"

	"envforge-cli/internal/conda"
	"envforge-cli/internal/manifest"
	"envforge-cli/internal/plan"
)

// checkTestcontainersAvailable safely checks whether a container provider
// can be used. The provider lookup can panic on some hosts.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

func TestProvisionScript_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping integration test: docker provider not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      "continuumio/miniconda3:latest",
			Entrypoint: []string{"sleep", "infinity"},
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skipping: could not start miniconda container: %v", err)
	}
	defer func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate: %v", err)
		}
	}()

	// The miniconda image installs to /opt/conda.
	ff, err := manifest.Parse([]byte(`
name = "itest"
python = "3.12"

[[step]]
kind = "pip"
packages = ["wheel"]
`), "itest.toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	p := plan.Compile(ff, &conda.Installation{Root: "/opt/conda"}, plan.Options{})
	script, err := p.Render(plan.FormatScript, "auto")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if err := ctr.CopyToContainer(ctx, []byte(script), "/tmp/provision.sh", 0o755); err != nil {
		t.Fatalf("CopyToContainer: %v", err)
	}

	code, out, err := ctr.Exec(ctx, []string{"sh", "/tmp/provision.sh"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	logs, _ := io.ReadAll(out)
	if code != 0 {
		t.Fatalf("provision script exited %d:\n%s", code, logs)
	}

	// The environment exists and its pip installed the package.
	code, out, err = ctr.Exec(ctx, []string{"/opt/conda/envs/itest/bin/pip", "show", "wheel"})
	if err != nil {
		t.Fatalf("Exec pip show: %v", err)
	}
	shown, _ := io.ReadAll(out)
	if code != 0 || !strings.Contains(string(shown), "Name: wheel") {
		t.Errorf("pip show wheel exited %d:\n%s", code, shown)
	}

	// Re-running must fail fast at the create step: the env already exists.
	code, _, err = ctr.Exec(ctx, []string{"sh", "/tmp/provision.sh"})
	if err != nil {
		t.Fatalf("Exec rerun: %v", err)
	}
	if code == 0 {
		t.Error("re-running the provision script against an existing env succeeded, want create-step failure")
	}
}
