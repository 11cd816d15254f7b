// Package main provides the entry point for outpost-cli.
//
// outpost-cli is the command-line tool for managing Hudson Bay
// outposts: status, inventory and cross-outpost synchronization.
package main

import (
	"os"

	"github.com/mshears713/HudsonBayOutposts/internal/cli/command"
)

func main() {
	app := command.App()
	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
