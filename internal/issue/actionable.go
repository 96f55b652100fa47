// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error enriched with the context a user needs to
	// fix the problem themselves: what was being attempted, which resource
	// was involved, and concrete suggestions.
	//
	// Construct via the Context builder:
	//
	//	return issue.NewContext().
	//		Op("resolve conda installation").
	//		Resource(path).
	//		Suggest("Pass --conda-root with the installation directory").
	//		Wrap(err).
	//		Err()
	ActionableError struct {
		// Operation is a verb phrase describing the attempt (e.g., "load forgefile").
		Operation string
		// Resource is the file, path, or entity involved (optional).
		Resource string
		// Suggestions are hints on how to fix the problem (optional).
		Suggestions []string
		// Cause is the underlying error (optional).
		Cause error
	}

	// Context builds ActionableError values incrementally.
	Context struct {
		ae ActionableError
	}
)

// NewContext returns an empty builder.
func NewContext() *Context {
	return &Context{}
}

// Op sets the operation being attempted.
func (c *Context) Op(op string) *Context {
	c.ae.Operation = op
	return c
}

// Resource sets the file, path, or entity involved.
func (c *Context) Resource(res string) *Context {
	c.ae.Resource = res
	return c
}

// Suggest appends one fix suggestion. May be called repeatedly.
func (c *Context) Suggest(s string) *Context {
	c.ae.Suggestions = append(c.ae.Suggestions, s)
	return c
}

// Wrap records the underlying cause.
func (c *Context) Wrap(err error) *Context {
	c.ae.Cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set
// (operation is the one required field).
func (c *Context) Build() *ActionableError {
	if c.ae.Operation == "" {
		return nil
	}
	ae := c.ae
	return &ae
}

// Err returns the built error as a plain error, nil when no operation was set.
func (c *Context) Err() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

// Error implements error. The concise form is used for non-verbose output.
func (e *ActionableError) Error() string {
	var b strings.Builder
	b.WriteString("failed to ")
	b.WriteString(e.Operation)
	if e.Resource != "" {
		b.WriteString(": ")
		b.WriteString(e.Resource)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause to errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error with its suggestions. In verbose mode the full
// unwrap chain is appended, one numbered line per cause.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	for _, s := range e.Suggestions {
		b.WriteString("\n  • ")
		b.WriteString(s)
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err.Error())
		}
	}

	return b.String()
}
