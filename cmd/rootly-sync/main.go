// Command rootly-sync indexes Rootly incident management data in Glean.
package main

import (
	"os"

	"github.com/custodia-labs/rootly-sync/internal/adapters/driving/cli"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
