package main

import (
	"os"

	"github.com/moasq/gridmenu/internal/commands"
	"github.com/moasq/gridmenu/internal/terminal"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !commands.Quiet(err) {
			terminal.Error(err.Error())
		}
		os.Exit(commands.ExitCode(err))
	}
}
