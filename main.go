// Package main is the entry point for the techsite CLI.
package main

import (
	"techsite/web/cmd"
)

func main() {
	cmd.Execute()
}
