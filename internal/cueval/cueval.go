// SPDX-License-Identifier: MPL-2.0

// Package cueval wraps the CUE evaluation flow used to validate declarative
// inputs (forgefiles, config files) against embedded schemas. It unifies a
// user-supplied value with a schema definition and reports violations with
// JSON-path locations.
package cueval

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// MaxInputSize bounds the size of user-supplied files to keep a corrupt or
// hostile input from exhausting memory during evaluation.
const MaxInputSize int64 = 1 << 20 // 1 MiB

// ValidateValue unifies an already-decoded Go value (e.g., the result of a
// TOML unmarshal) with the schema definition at defPath and validates the
// result with concrete values required. filename is used in error messages.
func ValidateValue(schema string, value any, defPath, filename string) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	unified := def.Unify(ctx.Encode(value))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return FormatError(err, filename)
	}
	return nil
}

// DecodeFile compiles a CUE source file, unifies it with the schema
// definition at defPath, validates, and decodes into T. Optional fields may
// stay non-concrete; defaults from the schema apply.
func DecodeFile[T any](schema string, data []byte, defPath, filename string) (*T, error) {
	if err := CheckInputSize(data, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(); err != nil {
		return nil, FormatError(err, filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return &out, nil
}

// CheckInputSize rejects inputs larger than MaxInputSize.
func CheckInputSize(data []byte, filename string) error {
	if int64(len(data)) > MaxInputSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), MaxInputSize)
	}
	return nil
}

// FormatError rewrites a CUE error into "<file>: <json-path>: <message>"
// form, one line per violation.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	var lines []string
	for _, e := range cueErrs {
		pathStr := jsonPath(errors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path inside the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		if pathStr != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}

// jsonPath converts a CUE error path (["step", "0", "kind"]) into JSON-path
// notation ("step[0].kind").
func jsonPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if isDigits(part) && i > 0 {
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
