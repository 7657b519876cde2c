// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/riot/cmd/riot"

func main() {
	cmd.Execute()
}
