// Package main is the entry point for the gactl CLI binary.
package main

import (
	"os"

	"ga-reports/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
