// SPDX-License-Identifier: MPL-2.0

// Package config loads the global envforge configuration. Configuration
// lives in a CUE file under the platform config directory, is validated
// against an embedded schema, and is merged into Viper so defaults and
// explicit settings compose predictably.
package config
