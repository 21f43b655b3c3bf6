package cli

import (
	"fmt"
	"strconv"

	"github.com/grendel/noprints/internal/prefs"
	"github.com/grendel/noprints/pkg/ui"
	"github.com/spf13/cobra"
)

func newPrefsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change feature toggles",
	}
	cmd.AddCommand(newPrefsListCommand(e), newPrefsSetCommand(e))
	return cmd
}

func newPrefsListCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every preference",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := e.container.Prefs.All()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			cs := ui.NewColorScheme(cmd.OutOrStdout())
			for _, key := range prefs.Keys() {
				fmt.Fprintf(cs.Out, "%-30s %s\n", cs.Key.Sprint(key), cs.Param.Sprint(strconv.FormatBool(all[key])))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print preferences as JSON")
	return cmd
}

func newPrefsSetCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Change a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: want true or false", args[1])
			}
			if err := e.container.Prefs.Set(args[0], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %t\n", args[0], value)
			return nil
		},
	}
}
