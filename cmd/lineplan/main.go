package main

import (
	"os"

	"github.com/vsinha/lineplan/pkg/interfaces/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(err)
		os.Exit(1)
	}
}
