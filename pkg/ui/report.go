package ui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grendel/noprints/internal/history"
	"github.com/grendel/noprints/internal/scanner"
	"github.com/grendel/noprints/pkg/crypto"
	"github.com/grendel/noprints/pkg/matcher"
	"github.com/grendel/noprints/pkg/risk"
	"github.com/grendel/noprints/pkg/security"
)

// PrintVerdict prints a verdict and the display form of the analyzed text
func PrintVerdict(cs *ColorScheme, v *security.Verdict, display string) {
	cs.Result.Fprint(cs.Out, "Risk: ")
	cs.Level(v.RiskLevel).Fprintf(cs.Out, "%s (%d/100)\n", v.RiskLevel, v.RiskScore)
	PrintField(cs, "Display", security.Icon(v)+" "+display)
	if v.ShouldExpire {
		PrintField(cs, "Expires", "after "+strconv.Itoa(v.ExpireSeconds)+"s")
	}
	if v.ShouldBlur {
		PrintField(cs, "Blurred", "yes")
	}

	n := 0
	printEntities := func(label string, entities []crypto.Entity) {
		for _, e := range entities {
			n++
			PrintMatchHeader(cs, n, label+" / "+string(e.Type))
			if e.Network != "" {
				PrintField(cs, "Network", string(e.Network))
			}
			if e.WordCount > 0 {
				PrintField(cs, "Words", strconv.Itoa(e.WordCount))
			}
			if e.Kind > 0 {
				PrintField(cs, "Kind", strconv.Itoa(e.Kind))
			}
			if e.Verified {
				PrintField(cs, "Verified", "yes")
			}
		}
	}
	b := v.Bitcoin
	printEntities("bitcoin", concat(b.PrivateKeys, b.SeedPhrases, b.ExtendedKeys, b.Addresses, b.Lightning, b.TransactionIDs))
	ns := v.Nostr
	printEntities("nostr", concat(ns.PrivateKeys, ns.PublicKeys, ns.Notes, ns.Events, ns.Relays, ns.NIP05IDs, ns.Zaps, ns.RawEvents))
	for _, group := range [][]matcher.Finding{v.Passwords, v.CreditCards, v.APIKeys, v.OtherSensitive} {
		for _, f := range group {
			n++
			PrintMatchHeader(cs, n, string(f.Type))
			if f.Masked != "" {
				PrintField(cs, "Masked", f.Masked)
			}
			if f.Fingerprint != "" {
				PrintField(cs, "Fingerprint", f.Fingerprint)
			}
		}
	}

	for _, w := range v.Warnings {
		cs.Level(v.RiskLevel).Fprintln(cs.Out, w)
	}
}

func concat(groups ...[]crypto.Entity) []crypto.Entity {
	var out []crypto.Entity
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// PrintItem prints one history row. reveal shows the raw text instead of the
// display form.
func PrintItem(cs *ColorScheme, it history.Item, pinned, reveal bool, now time.Time) {
	text := it.DisplayText
	if reveal {
		text = it.Text
	}
	cs.Match.Fprintf(cs.Out, "%s ", it.ID)
	cs.Normal.Fprintf(cs.Out, "%s %s", it.Icon, text)
	if pinned {
		cs.Key.Fprint(cs.Out, "  [pinned]")
	}
	fmt.Fprintln(cs.Out)

	meta := humanize.RelTime(it.Timestamp, now, "ago", "from now")
	if it.Metadata.SourceApp != "" {
		meta += " from " + it.Metadata.SourceApp
	}
	if it.Metadata.SecurityAnalysis != nil {
		meta += ", " + it.Metadata.SecurityAnalysis.RiskLevel.String()
	}
	if it.ExpireAt != nil && !pinned {
		meta += ", expires " + humanize.RelTime(*it.ExpireAt, now, "ago", "from now")
	}
	cs.Subtitle.Fprintf(cs.Out, "             %s\n", meta)
}

// PrintStatistics prints history statistics
func PrintStatistics(cs *ColorScheme, st history.Statistics) {
	PrintField(cs, "Total", humanize.Comma(int64(st.Total)))
	PrintField(cs, "Sensitive", strconv.Itoa(st.Sensitive))
	PrintField(cs, "Bitcoin", strconv.Itoa(st.Bitcoin))
	PrintField(cs, "Nostr", strconv.Itoa(st.Nostr))
	PrintField(cs, "Pinned", strconv.Itoa(st.Pinned))
	PrintField(cs, "Expiring soon", strconv.Itoa(st.ExpiringSoon))
}

// PrintFileReport prints the hits found in one scanned file
func PrintFileReport(cs *ColorScheme, r scanner.FileReport) {
	cs.Path.Fprintf(cs.Out, "%s", filepath.Base(r.Path))
	if r.Err != "" {
		cs.Error.Fprintf(cs.Out, "  error: %s\n", r.Err)
		return
	}
	if !r.Flagged() {
		cs.Success.Fprintln(cs.Out, "  clean")
		return
	}
	cs.Level(r.Verdict.RiskLevel).Fprintf(cs.Out, "  %s (%d/100)\n", r.Verdict.RiskLevel, r.Verdict.RiskScore)
	for i, h := range r.Hits {
		PrintMatchHeader(cs, i+1, h.Kind)
		value := h.Value
		if h.Icon != "" {
			value = h.Icon + " " + value
		}
		PrintField(cs, "Value", value)
		if h.Score > 0 {
			PrintField(cs, "Score", strconv.Itoa(h.Score)+"/100")
		}
		if h.Line > 0 {
			PrintField(cs, "Line", strconv.Itoa(h.Line))
		}
	}
}

// PrintScanSummary prints the totals of a scan
func PrintScanSummary(cs *ColorScheme, res *scanner.ScanResult) {
	msg := fmt.Sprintf("Scanned %s files, %d flagged", humanize.Comma(int64(res.FilesScanned)), res.Flagged)
	if res.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", res.Failed)
	}
	PrintFooter(cs, msg)

	levels := make([]risk.Level, 0, len(res.ByLevel))
	for l := range res.ByLevel {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] > levels[j] })
	for _, l := range levels {
		cs.Level(l).Fprintf(cs.Out, "  %-9s %d\n", l, res.ByLevel[l])
	}
}
