// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing diagnostics: actionable errors that
// carry operation/resource context plus fix suggestions, and a small catalog
// of known failure conditions rendered as markdown in the terminal.
package issue
