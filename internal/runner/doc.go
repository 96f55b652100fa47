// SPDX-License-Identifier: MPL-2.0

// Package runner executes provisioning plans strictly sequentially with
// fail-fast semantics: the first command that exits non-zero aborts the run
// and its exit code becomes the process exit code. Two executors are
// provided: native (the host's os/exec) and virtual (the built-in mvdan/sh
// interpreter).
package runner
