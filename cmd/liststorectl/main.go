// Command liststorectl is a CLI for operating on a docstore/liststore
// deployment directly against its object store and cache.
package main

import (
	"fmt"
	"os"

	"github.com/cktan/liststore/cmd/liststorectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "liststorectl: %v\n", err)
		os.Exit(1)
	}
}
