// Package commands implements the liststorectl subcommands.
package commands

import (
	"github.com/spf13/cobra"
)

var configPath string

// Root is the top-level liststorectl command.
var Root = &cobra.Command{
	Use:   "liststorectl",
	Short: "Inspect and operate on docstore/liststore buckets",
	Long: `liststorectl talks directly to the object store and cache backing a
docstore/liststore deployment.

Examples:
  # Write a document
  liststorectl docstore put invoices/2013 acme-042 ./invoice.json

  # Append a row to a list
  liststorectl list append weekly-digest --ctime 1357020800 --content "hello"

  # Dismiss every item up to and including a ctime
  liststorectl list set-dismissed weekly-digest --ctime 1357020800 --prior`,
}

func init() {
	Root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ./liststore.yaml)")
	Root.AddCommand(docstoreCmd)
	Root.AddCommand(listCmd)
}

// Execute runs the root command.
func Execute() error {
	return Root.Execute()
}
