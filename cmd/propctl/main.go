// Command propctl inspects the portal catalog and checks form files from the
// command line, using the same filters and validation as the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
