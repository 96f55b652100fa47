// SPDX-License-Identifier: MPL-2.0

// Package manifest parses and validates forgefiles: declarative TOML
// documents naming an environment, its pinned interpreter version, and an
// ordered list of install steps. Step order is preserved exactly as written
// because later steps may depend on earlier ones (a compiler toolchain step
// must precede the packages that compile against it).
package manifest
