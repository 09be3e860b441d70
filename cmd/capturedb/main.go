// Package main provides the entry point for the capturedb CLI tool.
package main

import (
	"os"

	"github.com/nxshot/capturedb/cmd/capturedb/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cmd.Execute(version, commit, date))
}
