package cli

import (
	"fmt"

	"github.com/grendel/noprints/pkg/ui"
)

// DisplayHelp shows usage information for the application
func DisplayHelp(cs *ui.ColorScheme) {
	ui.PrintHeader(cs, "NoPrints - Clipboard sanitizer and secret guard")

	ui.PrintSectionHeader(cs, "USAGE:")
	cs.Normal.Fprintln(cs.Out, "  noprints <command> [options]")
	fmt.Fprintln(cs.Out)

	ui.PrintSectionHeader(cs, "COMMANDS:")
	ui.PrintOption(cs, "analyze  ", "Classify text from arguments, a file or stdin")
	ui.PrintOption(cs, "clean    ", "Strip hidden characters and trailing whitespace")
	ui.PrintOption(cs, "validate ", "Check a Bitcoin, Nostr or Ethereum token or a seed phrase")
	ui.PrintOption(cs, "scan     ", "Classify text files on disk")
	ui.PrintOption(cs, "watch    ", "Monitor the clipboard until interrupted")
	ui.PrintOption(cs, "history  ", "List, search, pin and clear the clipboard history")
	ui.PrintOption(cs, "prefs    ", "Show or change feature toggles")
	ui.PrintOption(cs, "config   ", "Write or show the configuration file")
	fmt.Fprintln(cs.Out)

	ui.PrintSectionHeader(cs, "GLOBAL FLAGS:")
	ui.PrintOption(cs, "--config    ", "Config file (default: <user config dir>/NoPrints/noprints.yaml)")
	ui.PrintOption(cs, "--log-level ", "debug, info, warn or error")
	fmt.Fprintln(cs.Out)

	ui.PrintSectionHeader(cs, "EXAMPLES:")
	ui.PrintExample(cs, "noprints analyze 'password: hunter2'", "Classify a string")
	ui.PrintExample(cs, "pbpaste | noprints clean | pbcopy    ", "Clean text through a pipe")
	ui.PrintExample(cs, "noprints scan ~/Documents            ", "Look for keys and seeds in files")
	ui.PrintExample(cs, "noprints history list --all          ", "Include sensitive items")
	fmt.Fprintln(cs.Out)

	ui.PrintSectionHeader(cs, "DESCRIPTION:")
	cs.Normal.Fprintln(cs.Out, "  NoPrints watches the clipboard for:")
	cs.Normal.Fprintln(cs.Out, "")
	cs.Normal.Fprintln(cs.Out, "  • Bitcoin keys, seed phrases, addresses and Lightning invoices")
	cs.Normal.Fprintln(cs.Out, "  • Nostr keys, identifiers, relays and raw events")
	cs.Normal.Fprintln(cs.Out, "  • Passwords, credit cards, API keys, JWTs and SSH keys")
	fmt.Fprintln(cs.Out)
	cs.Normal.Fprintln(cs.Out, "  Sensitive items are blurred in the history and expire automatically.")
	cs.Normal.Fprintln(cs.Out, "")
}
