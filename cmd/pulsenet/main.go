// Package main provides the pulsenet command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pulsenet/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
