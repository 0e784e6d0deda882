// Command viddup finds byte-identical video files.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/viddup/internal/cli"
)

// version is set at build time via -ldflags.
//
//nolint:gochecknoglobals // Build information
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
