// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/stylevars/stylevars/cmd/stylevars"

func main() {
	cmd.Execute()
}
