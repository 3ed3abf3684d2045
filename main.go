// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/pluggable/pluggable/cmd/pluggable"

func main() {
	cmd.Execute()
}
