// Package main is the entry point for the t3compat CLI.
package main

import (
	"t3compat/cmd"
)

func main() {
	cmd.Execute()
}
