package main

import (
	"os"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
