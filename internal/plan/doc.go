// SPDX-License-Identifier: MPL-2.0

// Package plan compiles a forgefile and a resolved conda installation into
// the ordered command sequence that provisions the environment: one create
// command, then one install command per manifest step. A plan is inert data;
// the runner package executes it and the renderers print it.
package plan
