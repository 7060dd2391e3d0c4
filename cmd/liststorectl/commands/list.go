package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cktan/liststore/cmd/liststorectl/cmdutil"
	"github.com/cktan/liststore/pkg/liststore"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Append, retrieve, scan, and manage time-partitioned lists",
}

var (
	appendCtime   int64
	appendContent string
)

var listAppendCmd = &cobra.Command{
	Use:   "append <name>",
	Short: "Append one row to a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmdutil.WithOperation(cmd.Context(), "append")
		return stores.Lists.Append(ctx, args[0], []liststore.Row{
			{Ctime: appendCtime, Content: appendContent},
		})
	},
}

var retrieveCtime int64

var listRetrieveCmd = &cobra.Command{
	Use:   "retrieve <name>",
	Short: "Retrieve the item at a ctime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmdutil.WithOperation(cmd.Context(), "retrieve")
		it, err := stores.Lists.Retrieve(ctx, args[0], retrieveCtime)
		if err != nil {
			return err
		}
		if it == nil {
			fmt.Println("(none)")
			return nil
		}
		fmt.Printf("ctime=%d seen=%v dismissed=%v content=%s\n", it.Ctime, bool(it.Seen), bool(it.Dismissed), it.Content)
		return nil
	},
}

var deleteCtime int64

var listDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete the item at a ctime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()
		ctx := cmdutil.WithOperation(cmd.Context(), "delete")
		return stores.Lists.Delete(ctx, args[0], deleteCtime)
	},
}

var (
	setSeenCtime int64
	setSeenPrior bool
)

var listSetSeenCmd = &cobra.Command{
	Use:   "set-seen <name>",
	Short: "Mark an item (and optionally everything before it) as seen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()
		ctx := cmdutil.WithOperation(cmd.Context(), "set_seen")
		return stores.Lists.SetSeen(ctx, args[0], setSeenCtime, setSeenPrior)
	},
}

var (
	setDismissedCtime int64
	setDismissedPrior bool
)

var listSetDismissedCmd = &cobra.Command{
	Use:   "set-dismissed <name>",
	Short: "Mark an item (and optionally everything before it) as dismissed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()
		ctx := cmdutil.WithOperation(cmd.Context(), "set_dismissed")
		return stores.Lists.SetDismissed(ctx, args[0], setDismissedCtime, setDismissedPrior)
	},
}

var (
	scanCtime         int64
	scanLimit         int
	scanOffset        int
	scanSkipSeen      bool
	scanSkipDismissed bool
)

var listReverseScanCmd = &cobra.Command{
	Use:   "reverse-scan <name>",
	Short: "Walk items at or before a ctime, latest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmdutil.WithOperation(cmd.Context(), "reverse_scan")
		items, err := stores.Lists.ReverseScan(ctx, args[0], scanCtime, scanLimit, scanOffset, scanSkipSeen, scanSkipDismissed)
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Printf("ctime=%d seen=%v dismissed=%v content=%s\n", it.Ctime, bool(it.Seen), bool(it.Dismissed), it.Content)
		}
		return nil
	},
}

var listCountCmd = &cobra.Command{
	Use:   "count <name>",
	Short: "Print total/seen/dismissed counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmdutil.WithOperation(cmd.Context(), "count")
		c, err := stores.Lists.Count(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("total=%d seen=%d dismissed=%d\n", c.Total, c.Seen, c.Dismissed)
		return nil
	},
}

var listDeleteNameCmd = &cobra.Command{
	Use:   "delete-name <name>",
	Short: "Delete every page belonging to a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()
		ctx := cmdutil.WithOperation(cmd.Context(), "delete_name")
		return stores.Lists.DeleteName(ctx, args[0])
	},
}

var listClearCacheCmd = &cobra.Command{
	Use:   "clear-cache <name>",
	Short: "Drop cache entries for a list without touching durable state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cmdutil.Build(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		defer stores.Close()
		ctx := cmdutil.WithOperation(cmd.Context(), "clear_cache")
		return stores.Lists.ClearCache(ctx, args[0])
	},
}

func init() {
	listAppendCmd.Flags().Int64Var(&appendCtime, "ctime", 0, "unix epoch second (required)")
	listAppendCmd.Flags().StringVar(&appendContent, "content", "", "opaque row content")
	_ = listAppendCmd.MarkFlagRequired("ctime")

	listRetrieveCmd.Flags().Int64Var(&retrieveCtime, "ctime", 0, "unix epoch second (required)")
	_ = listRetrieveCmd.MarkFlagRequired("ctime")

	listDeleteCmd.Flags().Int64Var(&deleteCtime, "ctime", 0, "unix epoch second (required)")
	_ = listDeleteCmd.MarkFlagRequired("ctime")

	listSetSeenCmd.Flags().Int64Var(&setSeenCtime, "ctime", 0, "unix epoch second (required)")
	listSetSeenCmd.Flags().BoolVar(&setSeenPrior, "prior", false, "also mark every earlier unseen item")
	_ = listSetSeenCmd.MarkFlagRequired("ctime")

	listSetDismissedCmd.Flags().Int64Var(&setDismissedCtime, "ctime", 0, "unix epoch second (required)")
	listSetDismissedCmd.Flags().BoolVar(&setDismissedPrior, "prior", false, "also mark every earlier undismissed item")
	_ = listSetDismissedCmd.MarkFlagRequired("ctime")

	listReverseScanCmd.Flags().Int64Var(&scanCtime, "ctime", 0, "unix epoch second to scan backward from (required)")
	listReverseScanCmd.Flags().IntVar(&scanLimit, "limit", 100, "maximum items to return")
	listReverseScanCmd.Flags().IntVar(&scanOffset, "offset", 0, "items to skip before collecting")
	listReverseScanCmd.Flags().BoolVar(&scanSkipSeen, "skip-seen", false, "omit seen items")
	listReverseScanCmd.Flags().BoolVar(&scanSkipDismissed, "skip-dismissed", true, "omit dismissed items")
	_ = listReverseScanCmd.MarkFlagRequired("ctime")

	listCmd.AddCommand(listAppendCmd)
	listCmd.AddCommand(listRetrieveCmd)
	listCmd.AddCommand(listDeleteCmd)
	listCmd.AddCommand(listSetSeenCmd)
	listCmd.AddCommand(listSetDismissedCmd)
	listCmd.AddCommand(listReverseScanCmd)
	listCmd.AddCommand(listCountCmd)
	listCmd.AddCommand(listDeleteNameCmd)
	listCmd.AddCommand(listClearCacheCmd)
}
