// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"envforge-cli/internal/cueval"
	"envforge-cli/internal/issue"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the forgefile looked up in the current directory when
// no --manifest flag is given.
const DefaultFileName = "forgefile.toml"

//go:embed manifest_schema.cue
var manifestSchema string

//go:embed forgefile_default.toml
var defaultForgefile []byte

// StepKind discriminates install steps.
type StepKind string

const (
	// StepConda installs packages with conda, optionally from a community
	// channel.
	StepConda StepKind = "conda"
	// StepPip installs packages with the environment's own pip.
	StepPip StepKind = "pip"
)

type (
	// Forgefile is a parsed manifest.
	Forgefile struct {
		// Name is the environment name passed to `conda create -n`.
		Name string `toml:"name"`
		// Python is the pinned interpreter version.
		Python string `toml:"python"`
		// Steps are the install steps in manifest order.
		Steps []Step `toml:"step"`

		// FilePath is where the manifest was loaded from; "<builtin>" for
		// the embedded default.
		FilePath string `toml:"-"`
	}

	// Step is one ordered install invocation.
	Step struct {
		Kind     StepKind `toml:"kind"`
		Channel  string   `toml:"channel,omitempty"`
		Packages []string `toml:"packages"`
	}
)

// Parse decodes and validates a forgefile. filename is used in error
// messages only.
func Parse(data []byte, filename string) (*Forgefile, error) {
	if err := cueval.CheckInputSize(data, filename); err != nil {
		return nil, err
	}

	// Decode to a plain map first so the CUE schema sees exactly what was
	// written (absent optional fields stay absent).
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, parseError(filename, err)
	}
	if err := cueval.ValidateValue(manifestSchema, raw, "#Forgefile", filename); err != nil {
		return nil, parseError(filename, err)
	}

	var ff Forgefile
	if err := toml.Unmarshal(data, &ff); err != nil {
		return nil, parseError(filename, err)
	}
	ff.FilePath = filename

	// Constraints the schema cannot express.
	if err := ff.validate(); err != nil {
		return nil, parseError(filename, err)
	}

	return &ff, nil
}

// Load reads and parses the forgefile at path.
func Load(path string) (*Forgefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewContext().
			Op("load forgefile").
			Resource(path).
			Suggest("Run 'envforge init' to create a starter forgefile").
			Suggest("Or run with --builtin to use the embedded default manifest").
			Wrap(err).
			Err()
	}
	return Parse(data, path)
}

// Default returns the embedded default manifest.
func Default() *Forgefile {
	ff, err := Parse(defaultForgefile, "<builtin>")
	if err != nil {
		// The embedded manifest is validated by tests; reaching this is a
		// programming error.
		panic(fmt.Sprintf("embedded default forgefile invalid: %v", err))
	}
	return ff
}

// DefaultBytes returns the raw embedded manifest, used by `envforge init`
// to seed a starter forgefile.
func DefaultBytes() []byte {
	out := make([]byte, len(defaultForgefile))
	copy(out, defaultForgefile)
	return out
}

// validate enforces constraints that stay out of the CUE schema: package
// specs must not contain whitespace (one spec per list entry) and pip steps
// must not name a channel.
func (f *Forgefile) validate() error {
	for i, st := range f.Steps {
		if st.Kind == StepPip && st.Channel != "" {
			return fmt.Errorf("step[%d]: pip steps do not take a channel (got %q)", i, st.Channel)
		}
		for j, spec := range st.Packages {
			if strings.ContainsAny(spec, " \t") {
				return fmt.Errorf("step[%d].packages[%d]: spec %q contains whitespace; one package per entry", i, j, spec)
			}
		}
	}
	return nil
}

func parseError(filename string, err error) error {
	return issue.NewContext().
		Op("parse forgefile").
		Resource(filename).
		Suggest("Check the TOML syntax and the step definitions").
		Suggest("Step kinds are \"conda\" and \"pip\"; every step needs a non-empty packages list").
		Wrap(err).
		Err()
}
