package main

import (
	"github.com/custodia-labs/pyref-cli/internal/adapters/driving/cli"
)

// version is stamped by the linker at release time.
var version = "dev"

func main() {
	cli.Execute(version)
}
