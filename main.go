// SPDX-License-Identifier: MPL-2.0

package main

import cmd "envlaunch-cli/cmd/envlaunch"

func main() {
	cmd.Execute()
}
