// SPDX-License-Identifier: EPL-2.0

// Package platform provides cross-platform compatibility constants.
package platform

// GOOS values the CLI special-cases.
const (
	Windows = "windows"
	Darwin  = "darwin"
)
