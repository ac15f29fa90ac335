package main

import (
	"os"

	"github.com/conduit-lang/kmeta/internal/cli/commands"
)

// Version information is set at build time with
// -ldflags "-X github.com/conduit-lang/kmeta/internal/cli/commands.Version=..."

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
