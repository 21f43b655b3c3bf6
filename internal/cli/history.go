package cli

import (
	"fmt"
	"time"

	"github.com/grendel/noprints/internal/history"
	"github.com/grendel/noprints/internal/prefs"
	"github.com/grendel/noprints/pkg/security"
	"github.com/grendel/noprints/pkg/ui"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 10

func newHistoryCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the clipboard history",
		Long: `Inspect and manage the encrypted clipboard history.

The history file is owned by a running "noprints watch". Changes made here
(pin, unpin, delete, clear) while it runs are overwritten by its next save;
stop the watcher first, or make the change and restart it.`,
	}
	cmd.AddCommand(
		newHistoryListCommand(e),
		newHistorySearchCommand(e),
		newHistoryShowCommand(e),
		newHistoryCopyCommand(e),
		newHistoryIDCommand(e, "pin", "Keep an item from expiring", (*history.Store).Pin),
		newHistoryIDCommand(e, "unpin", "Remove an item's pin", (*history.Store).Unpin),
		newHistoryIDCommand(e, "delete", "Delete an item", (*history.Store).Delete),
		newHistoryClearSensitiveCommand(e),
		newHistoryClearExpiredCommand(e),
		newHistoryClearCommand(e),
		newHistoryStatsCommand(e),
	)
	return cmd
}

// printItems renders rows, showing raw text only when blurring is off or
// reveal was requested
func printItems(cmd *cobra.Command, e *env, store *history.Store, items []history.Item, reveal bool) {
	cs := ui.NewColorScheme(cmd.OutOrStdout())
	if len(items) == 0 {
		cs.Normal.Fprintln(cs.Out, "No items.")
		return
	}
	reveal = reveal || !e.container.Prefs.Bool(prefs.BlurSensitive)
	now := time.Now()
	for _, it := range items {
		ui.PrintItem(cs, it, store.IsPinned(it.ID), reveal, now)
	}
}

func newHistoryListCommand(e *env) *cobra.Command {
	var (
		limit  int
		all    bool
		reveal bool
		domain string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent items, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			var items []history.Item
			switch domain {
			case "":
				items = store.GetRecent(limit, all)
			case "bitcoin":
				items = store.BitcoinItems()
			case "nostr":
				items = store.NostrItems()
			default:
				return fmt.Errorf("unknown domain %q (want bitcoin or nostr)", domain)
			}
			printItems(cmd, e, store, items, reveal)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Max items to show")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include sensitive items")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show raw text instead of the blurred form")
	cmd.Flags().StringVar(&domain, "domain", "", "Only items with bitcoin or nostr content")
	return cmd
}

func newHistorySearchCommand(e *env) *cobra.Command {
	var all, reveal bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search item text and metadata, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			printItems(cmd, e, store, store.Search(args[0], all), reveal)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include sensitive items")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show raw text instead of the blurred form")
	return cmd
}

func newHistoryShowCommand(e *env) *cobra.Command {
	var reveal, asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item with its analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			it, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", history.ErrItemNotFound, args[0])
			}
			if asJSON {
				if !reveal {
					it.Text = it.DisplayText
				}
				return writeJSON(cmd.OutOrStdout(), it)
			}

			printItems(cmd, e, store, []history.Item{it}, reveal)
			if v := it.Metadata.SecurityAnalysis; v != nil {
				display := it.DisplayText
				if reveal {
					display = security.DisplayText(it.Text, nil)
				}
				ui.PrintVerdict(ui.NewColorScheme(cmd.OutOrStdout()), v, display)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show raw text instead of the blurred form")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the item as JSON")
	return cmd
}

func newHistoryCopyCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Put an item back on the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			it, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", history.ErrItemNotFound, args[0])
			}
			if err := e.container.Clipboard.Write(it.Text); err != nil {
				return fmt.Errorf("write clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %s\n", it.ID)
			return nil
		},
	}
}

// newHistoryIDCommand builds a subcommand applying op to a single item id
func newHistoryIDCommand(e *env, use, short string, op func(*history.Store, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			if !op(store, args[0]) {
				return fmt.Errorf("%w: %s", history.ErrItemNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", use, args[0])
			return nil
		},
	}
}

func newHistoryClearSensitiveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-sensitive",
		Short: "Remove every high and critical item now",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			before := store.Len()
			store.ClearSensitive()
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d sensitive items\n", before-store.Len())
			return nil
		},
	}
}

func newHistoryClearExpiredCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-expired",
		Short: "Remove items whose expiry has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired items\n", store.ClearExpired())
			return nil
		},
	}
}

func newHistoryClearCommand(e *env) *cobra.Command {
	var withClipboard bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			store.ClearAll()
			if withClipboard {
				if err := e.container.Clipboard.Write(""); err != nil {
					return fmt.Errorf("clear clipboard: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withClipboard, "clipboard", false, "Empty the system clipboard too")
	return cmd
}

func newHistoryStatsCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count items by kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.container.History()
			if err != nil {
				return err
			}
			st := store.Statistics()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			ui.PrintStatistics(ui.NewColorScheme(cmd.OutOrStdout()), st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the statistics as JSON")
	return cmd
}
