// SPDX-License-Identifier: MPL-2.0

// Package receipt records what a successful install run did. The receipt is
// written into the environment directory so a later doctor run can tell an
// envforge-provisioned environment from a hand-made one.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"envforge-cli/internal/plan"

	"gopkg.in/yaml.v3"
)

// FileName is the receipt file inside the environment directory.
const FileName = ".envforge-receipt.yaml"

type (
	// Receipt describes one completed install run.
	Receipt struct {
		// EnvName is the provisioned environment.
		EnvName string `yaml:"env_name"`
		// Python is the pinned interpreter version.
		Python string `yaml:"python"`
		// CondaRoot is the installation the environment lives under.
		CondaRoot string `yaml:"conda_root"`
		// Manifest is the forgefile path the run used.
		Manifest string `yaml:"manifest"`
		// CompletedAt is when the last step finished.
		CompletedAt time.Time `yaml:"completed_at"`
		// Steps are the commands that ran, in order.
		Steps []StepRecord `yaml:"steps"`
	}

	// StepRecord is one executed command.
	StepRecord struct {
		Description string `yaml:"description"`
		Command     string `yaml:"command"`
	}
)

// FromPlan builds a receipt for a fully executed plan.
func FromPlan(p *plan.Plan, manifestPath string, completedAt time.Time) *Receipt {
	r := &Receipt{
		EnvName:     p.EnvName,
		Python:      p.Python,
		CondaRoot:   p.CondaRoot,
		Manifest:    manifestPath,
		CompletedAt: completedAt.UTC(),
	}
	for _, cmd := range p.Commands {
		r.Steps = append(r.Steps, StepRecord{
			Description: cmd.Description,
			Command:     strings.Join(cmd.Argv, " "),
		})
	}
	return r
}

// Write stores the receipt inside envDir.
func (r *Receipt) Write(envDir string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}
	path := filepath.Join(envDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}

// Read loads a receipt from envDir. A missing file returns os.ErrNotExist.
func Read(envDir string) (*Receipt, error) {
	data, err := os.ReadFile(filepath.Join(envDir, FileName))
	if err != nil {
		return nil, err
	}
	var r Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	return &r, nil
}
