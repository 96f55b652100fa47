// SPDX-License-Identifier: MPL-2.0

package main

import cmd "envforge-cli/cmd/envforge"

func main() {
	cmd.Execute()
}
