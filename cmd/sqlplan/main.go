// Package main provides the CLI entry point for the model build planner.
package main

import (
	"os"

	"github.com/datastx/featherflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
