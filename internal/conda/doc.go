// SPDX-License-Identifier: EPL-2.0

// Package conda locates a conda installation on the host. Discovery probes
// an ordered candidate list (explicit override, the default miniconda and
// anaconda locations, then PATH) and falls back to an interactive prompt
// when a prompter is attached. Every candidate is normalized to an
// absolute, symlink-resolved path before probing.
package conda
