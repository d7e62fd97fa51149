// Package ui formats loclaude's terminal output: colored status lines,
// hints, headers and aligned tables. Color is used only when the output is
// a terminal and NO_COLOR is unset.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
)

const (
	reset   = "\x1b[0m"
	bold    = "\x1b[1m"
	dim     = "\x1b[2m"
	red     = "\x1b[31m"
	green   = "\x1b[32m"
	yellow  = "\x1b[33m"
	magenta = "\x1b[35m"
	cyan    = "\x1b[36m"
)

// Printer writes formatted output to one stream.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a printer for w with color auto-detected.
func New(w io.Writer) *Printer {
	return &Printer{w: w, color: ColorEnabled(w)}
}

// Plain returns a printer that never emits escape sequences.
func Plain(w io.Writer) *Printer {
	return &Printer{w: w}
}

// ColorEnabled reports whether w is a terminal and NO_COLOR is unset.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) paint(code, s string) string {
	if !p.color || s == "" {
		return s
	}
	return code + s + reset
}

func (p *Printer) Bold(s string) string   { return p.paint(bold, s) }
func (p *Printer) Dim(s string) string    { return p.paint(dim, s) }
func (p *Printer) Red(s string) string    { return p.paint(red, s) }
func (p *Printer) Green(s string) string  { return p.paint(green, s) }
func (p *Printer) Yellow(s string) string { return p.paint(yellow, s) }
func (p *Printer) Cyan(s string) string   { return p.paint(cyan, s) }
func (p *Printer) Accent(s string) string { return p.paint(magenta, s) }

// Brand renders text in the bold cyan used for headers.
func (p *Printer) Brand(s string) string {
	if !p.color {
		return s
	}
	return cyan + bold + s + reset
}

// Println writes a line.
func (p *Printer) Println(a ...any) { fmt.Fprintln(p.w, a...) }

// Printf writes formatted text.
func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }

// Success prints "✓ msg".
func (p *Printer) Success(msg string) { fmt.Fprintf(p.w, "%s %s\n", p.Green("✓"), msg) }

// Warn prints "⚠ msg".
func (p *Printer) Warn(msg string) { fmt.Fprintf(p.w, "%s %s\n", p.Yellow("⚠"), msg) }

// Error prints "✗ msg".
func (p *Printer) Error(msg string) { fmt.Fprintf(p.w, "%s %s\n", p.Red("✗"), msg) }

// Info prints "ℹ msg".
func (p *Printer) Info(msg string) { fmt.Fprintf(p.w, "%s %s\n", p.Cyan("ℹ"), msg) }

// Hint prints an indented, dimmed suggestion.
func (p *Printer) Hint(msg string) { fmt.Fprintf(p.w, "    %s %s\n", p.Dim("→"), p.Dim(msg)) }

// Header prints a branded title with an underline.
func (p *Printer) Header(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.Brand("  "+title))
	fmt.Fprintln(p.w, p.Dim("  "+strings.Repeat("─", len([]rune(title))+2)))
}

// Section prints a bold section title preceded by a blank line.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.Brand(title))
}

// LabelValue prints "  label: value".
func (p *Printer) LabelValue(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.Dim(label+":"), value)
}

// StatusLine formats "<icon> name: message (extra)" for status ok, warning
// or error.
func (p *Printer) StatusLine(status, name, message, extra string) string {
	var icon string
	switch status {
	case "ok":
		icon = p.Green("✓")
	case "warning":
		icon = p.Yellow("⚠")
	default:
		icon = p.Red("✗")
	}
	line := fmt.Sprintf("%s %s: %s", icon, name, message)
	if extra != "" {
		line += " " + p.Dim("("+extra+")")
	}
	return line
}

// Table writes rows aligned under headers. Headers are not colored so the
// columns stay aligned.
func (p *Printer) Table(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Box prints lines inside a rounded frame sized to the widest line.
func (p *Printer) Box(lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	fmt.Fprintln(p.w, p.Cyan("╭"+strings.Repeat("─", width+2)+"╮"))
	for _, l := range lines {
		pad := strings.Repeat(" ", width-len([]rune(l)))
		fmt.Fprintf(p.w, "%s %s%s %s\n", p.Cyan("│"), l, pad, p.Cyan("│"))
	}
	fmt.Fprintln(p.w, p.Cyan("╰"+strings.Repeat("─", width+2)+"╯"))
}
