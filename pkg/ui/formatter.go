package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/grendel/noprints/pkg/risk"
)

const (
	// BoxWidth is the standard width for display boxes
	BoxWidth = 80
)

// ColorScheme defines a set of colors for consistent UI formatting
type ColorScheme struct {
	Out io.Writer

	Header   *color.Color // box borders
	Title    *color.Color
	Subtitle *color.Color // section titles
	Normal   *color.Color
	Param    *color.Color // flag names
	Path     *color.Color
	Match    *color.Color
	Type     *color.Color
	Result   *color.Color
	Key      *color.Color
	Example  *color.Color
	Success  *color.Color
	Error    *color.Color
	Warn     *color.Color
	Critical *color.Color
}

// DefaultColorScheme returns the default color scheme writing to stdout
func DefaultColorScheme() *ColorScheme {
	return NewColorScheme(os.Stdout)
}

// NewColorScheme returns the default colors writing to w
func NewColorScheme(w io.Writer) *ColorScheme {
	return &ColorScheme{
		Out:      w,
		Header:   color.New(color.FgBlue, color.Bold),
		Title:    color.New(color.FgHiWhite, color.Bold),
		Subtitle: color.New(color.FgBlue),
		Normal:   color.New(color.FgWhite),
		Param:    color.New(color.FgCyan),
		Path:     color.New(color.FgCyan),
		Match:    color.New(color.FgYellow),
		Type:     color.New(color.FgHiWhite, color.Bold),
		Result:   color.New(color.FgBlue),
		Key:      color.New(color.FgHiCyan),
		Example:  color.New(color.FgGreen),
		Success:  color.New(color.FgGreen, color.Bold),
		Error:    color.New(color.FgRed),
		Warn:     color.New(color.FgYellow, color.Bold),
		Critical: color.New(color.FgHiRed, color.Bold),
	}
}

// Level returns the color used for a risk level
func (cs *ColorScheme) Level(l risk.Level) *color.Color {
	switch l {
	case risk.Critical:
		return cs.Critical
	case risk.High:
		return cs.Error
	case risk.Medium:
		return cs.Warn
	default:
		return cs.Success
	}
}

// PrintHeader prints a formatted header box with the given title
func PrintHeader(cs *ColorScheme, title string) {
	printBox(cs, cs.Title, title)
}

// PrintFooter prints a formatted footer box with the given message
func PrintFooter(cs *ColorScheme, message string) {
	printBox(cs, cs.Result, message)
}

func printBox(cs *ColorScheme, c *color.Color, text string) {
	if len([]rune(text)) > BoxWidth-6 {
		text = string([]rune(text)[:BoxWidth-9]) + "..."
	}
	padding := max(BoxWidth-4-len([]rune(text)), 0)
	rule := strings.Repeat("─", BoxWidth-2)

	fmt.Fprintln(cs.Out)
	cs.Header.Fprintln(cs.Out, "╭"+rule+"╮")
	cs.Header.Fprint(cs.Out, "│  ")
	c.Fprint(cs.Out, text)
	cs.Header.Fprintf(cs.Out, "%s│\n", strings.Repeat(" ", padding))
	cs.Header.Fprintln(cs.Out, "╰"+rule+"╯")
	fmt.Fprintln(cs.Out)
}

// PrintOption prints a command line option with description
func PrintOption(cs *ColorScheme, flag, description string) {
	cs.Normal.Fprint(cs.Out, "  ")
	cs.Param.Fprint(cs.Out, flag)
	cs.Normal.Fprintln(cs.Out, description)
}

// PrintExample prints a usage example
func PrintExample(cs *ColorScheme, example, description string) {
	cs.Example.Fprintf(cs.Out, "  %s", example)
	if description != "" {
		cs.Example.Fprintf(cs.Out, "  # %s", description)
	}
	fmt.Fprintln(cs.Out)
}

// PrintSectionHeader prints a section header
func PrintSectionHeader(cs *ColorScheme, title string) {
	cs.Subtitle.Fprintln(cs.Out, title)
}

// PrintMatchHeader prints a numbered header for one finding
func PrintMatchHeader(cs *ColorScheme, number int, matchType string) {
	cs.Match.Fprintf(cs.Out, "Match #%d: ", number)
	cs.Type.Fprintf(cs.Out, "%s\n", matchType)
}

// PrintField prints an indented "label: value" line
func PrintField(cs *ColorScheme, label, value string) {
	cs.Key.Fprintf(cs.Out, "  %-14s", label+":")
	cs.Path.Fprintln(cs.Out, value)
}
