// Command recsync syncs SQL Server Reporting Services report feeds into a
// local entity store with field-level change history.
package main

import (
	"os"

	"github.com/recsync/recsync-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
