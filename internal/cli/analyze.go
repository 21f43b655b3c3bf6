package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/grendel/noprints/internal/prefs"
	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/fileutil"
	"github.com/grendel/noprints/pkg/sanitize"
	"github.com/grendel/noprints/pkg/security"
	"github.com/grendel/noprints/pkg/ui"
	"github.com/spf13/cobra"
)

// inputText returns the joined args, the contents of file, or stdin
func inputText(cmd *cobra.Command, args []string, file string, maxBytes int64) (string, error) {
	switch {
	case file != "":
		return fileutil.ReadText(file, maxBytes)
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAnalyzeCommand(e *env) *cobra.Command {
	var (
		file   string
		app    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Classify text for sensitive content",
		Long:  "Classify text given as arguments, read from --file, or piped on stdin. The text is cleaned first, as the clipboard monitor would.",
		RunE: func(cmd *cobra.Command, args []string) error {
			maxBytes := e.container.Config.Scan.MaxFileSizeMB * 1024 * 1024
			text, err := inputText(cmd, args, file, maxBytes)
			if err != nil {
				return err
			}
			text = sanitize.CleanText(text)
			v := e.container.Classifier.Analyze(text, app)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			display := security.DisplayText(text, nil)
			if e.container.Prefs.Bool(prefs.BlurSensitive) {
				display = security.DisplayText(text, &v)
			}
			ui.PrintVerdict(ui.NewColorScheme(cmd.OutOrStdout()), &v, display)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the text from a file")
	cmd.Flags().StringVar(&app, "app", "", "Source application name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the verdict as JSON")
	return cmd
}

func newCleanCommand(e *env) *cobra.Command {
	var fromClipboard bool

	cmd := &cobra.Command{
		Use:   "clean [text]",
		Short: "Remove hidden characters and trailing whitespace",
		Long:  "Clean text given as arguments or piped on stdin and print it. With --clipboard the system clipboard is cleaned in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromClipboard {
				text, _, err := e.container.Clipboard.ReadChanged()
				if err != nil {
					return fmt.Errorf("read clipboard: %w", err)
				}
				if !sanitize.Changed(text) {
					fmt.Fprintln(cmd.OutOrStdout(), "clipboard already clean")
					return nil
				}
				if err := e.container.Clipboard.Write(sanitize.CleanText(text)); err != nil {
					return fmt.Errorf("write clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "clipboard cleaned")
				return nil
			}

			text, err := inputText(cmd, args, "", 0)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), sanitize.CleanText(text))
			return err
		},
	}

	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "Clean the system clipboard in place")
	return cmd
}

func newValidateCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <address|key|phrase>",
		Short: "Validate a Bitcoin, Nostr or Ethereum token or a BIP39 phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := e.container.Classifier
			res := crypto.NewValidatorRegistry(c.Bitcoin(), c.Nostr()).Validate(strings.Join(args, " "))
			if res == nil {
				return errors.New("unrecognized token")
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			cs := ui.NewColorScheme(cmd.OutOrStdout())
			ui.PrintField(cs, "Domain", string(res.Domain))
			ui.PrintField(cs, "Type", res.Kind)
			if res.Network != "" {
				ui.PrintField(cs, "Network", string(res.Network))
			}
			if res.Encoding != "" {
				ui.PrintField(cs, "Encoding", string(res.Encoding))
			}
			if res.IsValid {
				cs.Success.Fprintln(cs.Out, "valid")
				return nil
			}
			cs.Error.Fprintln(cs.Out, "invalid")
			return fmt.Errorf("%s %s failed validation", res.Domain, res.Kind)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
