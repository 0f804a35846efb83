// Package main provides the entry point for the hybridsearch CLI.
package main

import (
	"os"

	"github.com/verdantcart/hybridsearch/cmd/hybridsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
