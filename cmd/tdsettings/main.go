package main

import (
	"os"

	"github.com/Mesbahzade/tdesktop/internal/cli/command"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
)

func main() {
	app := command.App()
	if err := app.Run(os.Args); err != nil {
		command.PrintError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for usage errors and 1 otherwise.
func exitCode(err error) int {
	if domain.IsUsageError(err) {
		return 2
	}
	return 1
}
