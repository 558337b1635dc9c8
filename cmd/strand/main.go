package main

import (
	"os"

	"github.com/roach88/strand/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own failures through the formatter;
		// here only the exit code remains.
		os.Exit(cli.GetExitCode(err))
	}
}
