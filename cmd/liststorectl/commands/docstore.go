package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cktan/liststore/cmd/liststorectl/cmdutil"
)

var docstoreCmd = &cobra.Command{
	Use:   "docstore",
	Short: "Put, get, delete, and list documents",
}

var docstorePutCmd = &cobra.Command{
	Use:   "put <path> <id> <file>",
	Short: "Write a document, reading its bytes from file (use - for stdin)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		data, err := readInput(args[2])
		if err != nil {
			return err
		}
		ctx := cmdutil.WithOperation(cmd.Context(), "put")
		return stores.Docs.Put(ctx, args[0], args[1], data)
	},
}

var docstoreGetCmd = &cobra.Command{
	Use:   "get <path> <id>",
	Short: "Read a document and print it to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmdutil.WithOperation(cmd.Context(), "get")
		data, ok, err := stores.Docs.Get(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("docstore: %s/%s: not found", args[0], args[1])
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var docstoreDeleteCmd = &cobra.Command{
	Use:   "delete <path> <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()
		ctx := cmdutil.WithOperation(cmd.Context(), "delete")
		return stores.Docs.Delete(ctx, args[0], args[1])
	},
}

var docstoreListLimit int

var docstoreListCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List document keys under a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmdutil.WithOperation(cmd.Context(), "list")
		keys, err := stores.Docs.List(ctx, args[0], docstoreListLimit)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

func init() {
	docstoreListCmd.Flags().IntVar(&docstoreListLimit, "limit", 0, "maximum keys to return (0 = unbounded)")

	docstoreCmd.AddCommand(docstorePutCmd)
	docstoreCmd.AddCommand(docstoreGetCmd)
	docstoreCmd.AddCommand(docstoreDeleteCmd)
	docstoreCmd.AddCommand(docstoreListCmd)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
